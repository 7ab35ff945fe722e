// Package fuzztests houses Go fuzz harnesses for the formatting pipeline
// (source -> lexer -> grammar fallback parser -> format -> verify). They
// guard against panics and hangs on arbitrary input, and check that any
// output the formatter produces is equivalent to its input and stable.
//
// Назначение: прогонять байты через FileSet, лексер, парсер и форматтер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
