package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/liveview/internal/client/iocli"
	"github.com/iudanet/liveview/internal/client/storage"
	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service описывает операции API сервера, используемые командами.
// Реализуется клиентом из internal/client/api; тесты подставляют мок.
type Service interface {
	// Login выполняет аутентификацию оператора
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)

	// Query возвращает страницу коллекции
	Query(ctx context.Context, query models.Query) (*models.Snapshot, error)

	// CreateRecord создает новую запись
	CreateRecord(ctx context.Context, req api.CreateRecordRequest) (*api.RecordResponse, error)

	// UpdateRecord изменяет поля существующей записи
	UpdateRecord(ctx context.Context, id string, req api.UpdateRecordRequest) (*api.RecordResponse, error)

	// ChangeStatus меняет статус записи
	ChangeStatus(ctx context.Context, id string, status string) (*api.RecordResponse, error)
}

// Passwords задает неинтерактивные источники пароля оператора
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli связывает команды терминала с API клиентом и локальной сессией
type Cli struct {
	io        iocli.IO
	logger    *slog.Logger
	service   Service
	sessions  storage.SessionStorage
	passwords Passwords
	serverURL string
}

// New создает CLI поверх API клиента и хранилища сессии
func New(io iocli.IO, logger *slog.Logger, service Service, sessions storage.SessionStorage, serverURL string, passwords Passwords) *Cli {
	return &Cli{
		io:        io,
		logger:    logger,
		service:   service,
		sessions:  sessions,
		passwords: passwords,
		serverURL: serverURL,
	}
}

// Run выполняет команду. Ошибка возвращается вызывающему для печати
// и выбора кода выхода.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		c.PrintUsage()
		return nil
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx, args)
	case "watch":
		return c.runWatch(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "set-status":
		return c.runSetStatus(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// getPassword возвращает пароль оператора. Приоритет источников:
// 1. Переменная окружения LIVEVIEW_PASSWORD
// 2. Файл из --password-file
// 3. Параметр --password
// 4. Интерактивный ввод (fallback)
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv("LIVEVIEW_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// PrintUsage печатает справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}
