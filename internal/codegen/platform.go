package codegen

import (
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Platform adapts a logical argv to the host's command shell conventions.
type Platform interface {
	// Name identifies the platform in logs and tests.
	Name() string

	// Invocation returns the argv handed to the operating system.
	Invocation(args []string) []string

	// Render returns a single-line form suitable for logs.
	Render(args []string) string
}

// PosixPlatform executes argv directly. No shell is involved, so arguments
// are passed through untouched.
type PosixPlatform struct{}

func (PosixPlatform) Name() string { return "posix" }

func (PosixPlatform) Invocation(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	return out
}

func (PosixPlatform) Render(args []string) string {
	return shellquote.Join(args...)
}

// WindowsPlatform routes the generator through cmd.exe so that interpreter
// shims such as node.cmd resolve. Every argument is quoted for the MSVC
// runtime and the whole command is wrapped in one more pair of quotes, which
// cmd /s strips before running it. The resulting argv must be passed to the OS
// as a raw command line.
//
// cmd.exe still expands %VAR% references inside quotes.
type WindowsPlatform struct{}

func (WindowsPlatform) Name() string { return "windows" }

func (WindowsPlatform) Invocation(args []string) []string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quoteWindowsArg(a)
	}
	return []string{"cmd", "/d", "/s", "/c", `"` + strings.Join(quoted, " ") + `"`}
}

func (p WindowsPlatform) Render(args []string) string {
	return strings.Join(p.Invocation(args), " ")
}

// HostPlatform returns the platform for the running operating system.
func HostPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// PlatformFor returns the platform for the given GOOS value.
func PlatformFor(goos string) Platform {
	if goos == "windows" {
		return WindowsPlatform{}
	}
	return PosixPlatform{}
}

const windowsSpecialChars = " \t\n\v\"&|<>^(),;="

// quoteWindowsArg quotes a for the MSVC argv parser, wrapping it in double
// quotes when it is empty or contains whitespace or cmd.exe metacharacters.
func quoteWindowsArg(a string) string {
	if a == "" {
		return `""`
	}
	if !strings.ContainsAny(a, windowsSpecialChars) {
		return a
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(a); i++ {
		c := a[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			// Backslashes preceding a quote are doubled, then the quote is escaped.
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	// Trailing backslashes would escape the closing quote.
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}
