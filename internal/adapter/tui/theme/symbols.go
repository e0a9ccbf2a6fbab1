package theme

import (
	"os"
	"strings"
)

// Symbols in use by the chat surface. Defaults are Unicode; InitSymbols swaps
// in ASCII fallbacks on terminals without UTF-8 locales.
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolSpinner = "⏳"
	SymbolBullet  = "•"
	SymbolUser    = "You"
)

type symbolSet struct {
	Success string
	Error   string
	Spinner string
	Bullet  string
}

var unicodeSymbols = symbolSet{
	Success: "\u2713", // ✓
	Error:   "\u2717", // ✗
	Spinner: "\u23F3", // ⏳
	Bullet:  "\u2022", // •
}

var asciiSymbols = symbolSet{
	Success: "[OK]",
	Error:   "[ERR]",
	Spinner: "[...]",
	Bullet:  "*",
}

// DetectUnicodeSupport checks whether the terminal likely supports Unicode.
// Priority: TODOCHAT_ASCII_SYMBOLS env (explicit override) > locale detection.
func DetectUnicodeSupport() bool {
	if v := os.Getenv("TODOCHAT_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}
	// Most modern terminals support Unicode; default to true.
	return true
}

// InitSymbols sets the package-level Symbol* variables based on terminal
// capabilities. Called automatically by init(), but can be called again in
// tests when the environment changes.
func InitSymbols() {
	set := unicodeSymbols
	if !DetectUnicodeSupport() {
		set = asciiSymbols
	}
	SymbolSuccess = set.Success
	SymbolError = set.Error
	SymbolSpinner = set.Spinner
	SymbolBullet = set.Bullet
}

func init() {
	InitSymbols()
}
