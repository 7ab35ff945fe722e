// Package format runs the formatting passes over a concrete tree and
// renders the result back to source text.
//
// Назначение: нормализация числовых литералов и префиксов строк, невидимые
// скобки, проход генератора строк; FormatSource как точка входа.
// Не делает: переноса длинных строк, проверки эквивалентности (internal/driver)
// и файлового IO.
// Зависимости: internal/parser, internal/linegen, internal/mode.
package format
