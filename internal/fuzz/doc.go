// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser). They look for panics, hangs and malformed
// errors on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
