package view

import "github.com/iudanet/liveview/internal/models"

//go:generate moq -out channel_mock.go . Channel

// Channel описывает менеджер живого канала с точки зрения фасада
// представления. Реализуется channel.Manager; тесты подставляют мок.
type Channel interface {
	// Connect запускает цикл соединения, повторный вызов безвреден
	Connect()

	// Retry выводит канал из терминального состояния Failed
	Retry()

	// Close останавливает канал до следующего Connect
	Close()

	// Frames отдает принятые кадры в порядке получения
	Frames() <-chan []byte

	// Status отдает переходы состояния соединения
	Status() <-chan models.ConnectionStatus
}
