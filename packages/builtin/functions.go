package builtin

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func produces a replacement from the call's arguments.
type Func func(args []string) (string, error)

type Registry struct {
	funcs map[string]Func
	now   func() time.Time
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		now:   time.Now,
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["uuid"] = func([]string) (string, error) { return uuid.NewString(), nil }
	r.funcs["now"] = func([]string) (string, error) { return r.now().UTC().Format(time.RFC3339), nil }
	r.funcs["timestamp"] = func([]string) (string, error) { return strconv.FormatInt(r.now().Unix(), 10), nil }
	r.funcs["timestampMs"] = func([]string) (string, error) { return strconv.FormatInt(r.now().UnixMilli(), 10), nil }
	r.funcs["date"] = r.date
	r.funcs["random"] = funcRandom
	r.funcs["randomString"] = funcRandomString
	r.funcs["randomEmail"] = funcRandomEmail
	r.funcs["base64"] = funcBase64
	r.funcs["sha256"] = funcSHA256
}

// Register adds or replaces a generator.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Has reports whether name is a registered generator.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

var (
	callPattern     = regexp.MustCompile(`\{\{\s*\$(\w+)\((.*?)\)\s*\}\}`)
	funcCallPattern = regexp.MustCompile(`^\$?(\w+)\((.*)\)$`)
)

// Call evaluates a single expression such as uuid() or random(1, 6).
func (r *Registry) Call(expr string) (string, error) {
	matches := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return "", fmt.Errorf("invalid call %q", expr)
	}
	return r.call(matches[1], matches[2])
}

func (r *Registry) call(name, argsStr string) (string, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return "", fmt.Errorf("unknown function $%s", name)
	}

	var args []string
	if strings.TrimSpace(argsStr) != "" {
		args = parseArgs(argsStr)
	}

	out, err := fn(args)
	if err != nil {
		return "", fmt.Errorf("$%s: %w", name, err)
	}
	return out, nil
}

// Expand replaces every {{$name(args)}} call in s. Text without calls is
// returned unchanged.
func (r *Registry) Expand(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var firstErr error
	out := callPattern.ReplaceAllStringFunc(s, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := callPattern.FindStringSubmatch(m)
		v, err := r.call(sub[1], sub[2])
		if err != nil {
			firstErr = err
			return m
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// parseArgs splits on commas outside single or double quotes and strips
// the quotes.
func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
		case inQuote && ch == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	args = append(args, strings.TrimSpace(current.String()))
	return args
}

func intArg(args []string, i int, name string, def int) (int, error) {
	if len(args) <= i || args[i] == "" {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s argument %q is not an integer", name, args[i])
	}
	return v, nil
}

func (r *Registry) date(args []string) (string, error) {
	layout := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		layout = args[0]
	}
	return r.now().UTC().Format(layout), nil
}

func funcRandom(args []string) (string, error) {
	lo, err := intArg(args, 0, "min", 0)
	if err != nil {
		return "", err
	}
	hi, err := intArg(args, 1, "max", 100)
	if err != nil {
		return "", err
	}
	if hi < lo {
		return "", fmt.Errorf("max %d is below min %d", hi, lo)
	}
	return strconv.Itoa(rand.Intn(hi-lo+1) + lo), nil
}

func funcRandomString(args []string) (string, error) {
	length, err := intArg(args, 0, "length", 16)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("negative length %d", length)
	}
	return randomString(length, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"), nil
}

func funcRandomEmail([]string) (string, error) {
	const lower = "abcdefghijklmnopqrstuvwxyz"
	return fmt.Sprintf("%s@%s.com", randomString(8, lower), randomString(6, lower)), nil
}

func funcBase64(args []string) (string, error) {
	if len(args) < 1 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString([]byte(args[0])), nil
}

func funcSHA256(args []string) (string, error) {
	if len(args) < 1 {
		return "", nil
	}
	hash := sha256.Sum256([]byte(args[0]))
	return hex.EncodeToString(hash[:]), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
