// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки,
// чтобы ошибки во всех логах выглядели одинаково.
//
// Пример:
//
//	log.Error("failed to confirm purchase", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
