
// Package fuzztests houses Go fuzz harnesses for the front end and the fix
// engine (source -> lexer -> parser -> rules -> fixes). They guard against
// panics and hangs on arbitrary input and check the properties every fix
// must keep: lossless token streams, deterministic analysis, idempotent
// fixing.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер,
// таблицу правил и цикл исправлений.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/analysis, internal/fix, internal/rules, internal/testkit.

package fuzztests
