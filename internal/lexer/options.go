package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/source"
)

type Options struct {
	// Reporter может быть nil — тогда нефатальные ошибки только превращаются в Invalid токены.
	Reporter diag.Reporter
	// AsyncKeywords делает async/await ключевыми словами всегда.
	// Без него они ключевые только в заголовке "async def"/"async for" и внутри тела async def.
	AsyncKeywords bool
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
