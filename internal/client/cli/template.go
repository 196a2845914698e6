package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/iudanet/liveview/internal/models"
)

const usageText = `LiveView Client

Usage:
  liveview [OPTIONS] COMMAND

Options:
  --version              Show version information
  --server URL           Server URL (default: http://localhost:8080)
  --db PATH              Path to local session database (default: liveview-client.db)
  --password PASSWORD    Operator password (not recommended, use env var or file)
  --password-file PATH   Path to file containing operator password
  --log-level LEVEL      Log level: debug, info, warn, error (default: warn)

Password Priority (highest to lowest):
  1. LIVEVIEW_PASSWORD environment variable
  2. --password-file (file path)
  3. --password (command line)
  4. Interactive prompt (fallback)

Commands:
  help                         Show this help
  login                        Login to server and save the session
  logout                       Delete the saved session
  status                       Show session status
  list                         Show one page of the collection
  watch                        Follow the collection live (Ctrl+C to exit)
  add <field=value ...>        Create a record
  update <id> <field=value ..> Merge fields into a record
  set-status <id> <status>     Change record status

List/watch options:
  -status STATUS    Filter by status (pending, approved, declined, completed)
  -search TEXT      Substring search over record fields
  -sort FIELD       Sort field: created_at, updated_at, status
  -order ORDER      Sort order: asc, desc
  -page N           Page number (list only)
  -page-size N      Page size

Examples:
  liveview login
  liveview list -status pending -page 2
  liveview watch -search "acme"
  liveview add customer=Acme amount=1500
  liveview update b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5 amount=1700
  liveview set-status b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5 approved
  liveview --server https://example.com login

While watching:
  Enter       refresh the page (also reveals pending new records)
  r + Enter   retry after the connection entered the failed state
  q + Enter   quit`

// recordsPageTemplate рендерит одну страницу коллекции
const recordsPageTemplate = `{{ if .Stale }}!  view may be stale, refresh recommended
{{ end -}}
Page {{ .Page }}/{{ .TotalPages }} | {{ .TotalCount }} record(s){{ if .Status }} | status={{ .Status }}{{ end }}{{ if .Search }} | search={{ printf "%q" .Search }}{{ end }} | sort {{ .Sort }} {{ .Order }}
{{ if eq (len .Items) 0 }}
No records match the current view.
{{ else }}
{{- range .Items }}
{{ shortID .ID }}  {{ printf "%-10s" .Status }}  {{ timestamp .UpdatedAt }}  {{ fieldsLine .Fields }}
{{- end }}
{{ end }}`

// pageData данные для шаблона страницы
type pageData struct {
	Items      []*models.Record
	Status     string
	Search     string
	Sort       string
	Order      string
	Page       int
	TotalPages int
	TotalCount int
	Stale      bool
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"shortID":    shortID,
	"timestamp":  formatTimestamp,
	"fieldsLine": fieldsLine,
}).Parse(recordsPageTemplate))

// renderPage печатает страницу коллекции в w
func renderPage(w io.Writer, data pageData) error {
	if data.TotalPages < 1 {
		data.TotalPages = 1
	}
	return pageTmpl.Execute(w, data)
}

// newPageData собирает данные шаблона из запроса и содержимого страницы
func newPageData(query models.Query, items []*models.Record, totalCount int, stale bool) pageData {
	totalPages := (totalCount + query.PageSize - 1) / query.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return pageData{
		Items:      items,
		Status:     query.Status,
		Search:     query.Search,
		Sort:       query.Sort,
		Order:      query.Order,
		Page:       query.Page,
		TotalPages: totalPages,
		TotalCount: totalCount,
		Stale:      stale,
	}
}

// shortID возвращает первые 8 символов UUID для компактного вывода
func shortID(id string) string {
	if len(id) <= 8 {
		return fmt.Sprintf("%-8s", id)
	}
	return id[:8]
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// fieldsLine сводит поля записи в одну строку: ключи отсортированы,
// длинная строка обрезается
const maxFieldsLine = 60

func fieldsLine(fields map[string]string) string {
	if len(fields) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	line := strings.Join(pairs, ", ")
	if len(line) > maxFieldsLine {
		return line[:maxFieldsLine-3] + "..."
	}
	return line
}
