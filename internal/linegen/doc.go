// Package linegen splits a concrete tree into logical lines and runs the
// bracket tracker over each of them.
//
// Назначение: логические строки (Line) с разметкой скобок и приоритетами
// разделителей, нормализация невидимых скобок.
// Не делает: переноса строк и расстановки пробелов.
// Зависимости: internal/cst, internal/brackets, internal/trace.
package linegen
