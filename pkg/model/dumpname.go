package model

import "strings"

var dumpNameReplacer = strings.NewReplacer(
	"<", "dia_",
	">", "_dia",
	"[", "box_",
	"]", "_box",
	"!", "not",
	"&", "and",
	"|", "or",
	";", "seq",
	"*", "star",
	"?", "test",
	" ", "",
)

// SanitizeFormulaForFilename maps PDL operator characters to ASCII tokens so
// a formula's text can be used as (part of) a dump file path.
func SanitizeFormulaForFilename(formula string) string {
	return dumpNameReplacer.Replace(formula)
}
