// Package decode разбирает сырые кадры живого канала в типизированные
// события. Декодер чистый: без побочных эффектов и без состояния,
// что позволяет тестировать его на фиксированных байтовых фикстурах.
package decode

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/liveview/internal/models"
	"github.com/iudanet/liveview/pkg/api"
)

// FrameKind вид разобранного кадра
type FrameKind int

const (
	// KindEvent кадр несёт событие об изменении записи
	KindEvent FrameKind = iota
	// KindPing keepalive-кадр; события не несёт, но сбрасывает idle-таймер
	KindPing
)

// Frame результат разбора одного кадра канала
type Frame struct {
	Event *models.UpdateEvent // заполнено только для KindEvent
	Kind  FrameKind
}

// DecodeError представляет ошибку разбора кадра. Вызывающий логирует
// её и отбрасывает кадр; ошибка никогда не распространяется дальше
// менеджера соединения.
type DecodeError struct {
	Reason string // причина отказа
	Action string // действие из кадра, если удалось прочитать
}

func (e *DecodeError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("decode frame (action=%q): %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("decode frame: %s", e.Reason)
}

// Decode разбирает один сырой кадр. Возвращает DecodeError, если кадр
// синтаксически некорректен, действие неизвестно, у события нет
// record.id или sequence. Кадры ping валидны и возвращаются как
// Frame{Kind: KindPing}.
func Decode(raw []byte) (Frame, error) {
	var wire api.Frame
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Frame{}, &DecodeError{Reason: fmt.Sprintf("malformed json: %v", err)}
	}

	switch wire.Action {
	case api.ActionPing:
		return Frame{Kind: KindPing}, nil
	case api.ActionCreated, api.ActionUpdated, api.ActionStatusChanged:
		// проверки ниже
	case "":
		return Frame{}, &DecodeError{Reason: "missing action"}
	default:
		return Frame{}, &DecodeError{Reason: "unknown action", Action: wire.Action}
	}

	if wire.Record == nil || wire.Record.ID == "" {
		return Frame{}, &DecodeError{Reason: "missing record id", Action: wire.Action}
	}
	if wire.Sequence <= 0 {
		return Frame{}, &DecodeError{Reason: "missing sequence", Action: wire.Action}
	}

	fields := make(map[string]string, len(wire.Record.Fields))
	for k, v := range wire.Record.Fields {
		fields[k] = v
	}

	event := &models.UpdateEvent{
		Action:   models.Action(wire.Action),
		Sequence: wire.Sequence,
		Record: &models.Record{
			ID:        wire.Record.ID,
			Status:    wire.Record.Status,
			Fields:    fields,
			CreatedAt: wire.Record.CreatedAt,
			UpdatedAt: wire.Record.UpdatedAt,
		},
	}

	return Frame{Kind: KindEvent, Event: event}, nil
}
