// Package hook runs a user Starlark script as the entry writer.
//
// The script defines write_file(entry, utils). entry is a dict carrying the
// entry fields plus "__metadata"; utils exposes slugify(text). The function
// returns None, one result dict or a list of them. A result dict has the keys
// content, format, path and optionally append.
package hook

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// FuncName is the function a hook script must define.
const FuncName = "write_file"

// ScriptError represents a failure loading or running a hook script.
type ScriptError struct {
	File    string
	Message string
	// Backtrace is the Starlark call stack, when available
	Backtrace string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Hook is a loaded write_file script.
type Hook struct {
	path   string
	fn     starlark.Callable
	logger *slog.Logger
}

// Load executes the script at path and returns its write_file function.
func Load(path string, logger *slog.Logger) (*Hook, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, &ScriptError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}
	return Parse(path, content, logger)
}

// Parse executes script source. path is used for error messages.
func Parse(path string, content []byte, logger *slog.Logger) (*Hook, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	thread := newThread("load:"+path, logger)
	globals, err := starlark.ExecFile(thread, path, content, predeclared()) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, scriptError(path, err)
	}

	value, ok := globals[FuncName]
	if !ok {
		return nil, &ScriptError{File: path, Message: fmt.Sprintf("script does not define %s(entry, utils)", FuncName)}
	}
	fn, ok := value.(starlark.Callable)
	if !ok {
		return nil, &ScriptError{File: path, Message: fmt.Sprintf("%s must be a function, got %s", FuncName, value.Type())}
	}

	return &Hook{path: path, fn: fn, logger: logger}, nil
}

// Write calls write_file for one entry. It satisfies core.WriteFunc.
func (h *Hook) Write(entry core.Entry, utils core.Utils) ([]core.RouteResult, error) {
	entryValue, err := GoToStarlark(entry.ToMap())
	if err != nil {
		return nil, &ScriptError{File: h.path, Message: fmt.Sprintf("failed to convert entry: %v", err)}
	}

	thread := newThread(FuncName, h.logger)
	ret, err := starlark.Call(thread, h.fn, starlark.Tuple{entryValue, utilsValue(utils)}, nil)
	if err != nil {
		return nil, scriptError(h.path, err)
	}

	results, err := toResults(ret)
	if err != nil {
		return nil, &ScriptError{File: h.path, Message: err.Error()}
	}
	return results, nil
}

// WriteFunc returns Write as a core.WriteFunc.
func (h *Hook) WriteFunc() core.WriteFunc {
	return h.Write
}

func newThread(name string, logger *slog.Logger) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(t *starlark.Thread, msg string) {
			logger.Info(msg, "thread", t.Name)
		},
	}
}

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}

func utilsValue(utils core.Utils) starlark.Value {
	slugify := starlark.NewBuiltin("slugify", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &text); err != nil {
			return nil, err
		}
		if utils.Slugify == nil {
			return nil, fmt.Errorf("%s: no slugify capability available", b.Name())
		}
		return starlark.String(utils.Slugify(text)), nil
	})

	return starlarkstruct.FromStringDict(starlark.String("utils"), starlark.StringDict{
		"slugify": slugify,
	})
}

func toResults(ret starlark.Value) ([]core.RouteResult, error) {
	value, err := ToGo(ret)
	if err != nil {
		return nil, fmt.Errorf("invalid %s result: %w", FuncName, err)
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		r, err := toResult(v)
		if err != nil {
			return nil, err
		}
		return []core.RouteResult{r}, nil
	case []any:
		results := make([]core.RouteResult, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("result %d must be a dict, got %T", i, item)
			}
			r, err := toResult(m)
			if err != nil {
				return nil, fmt.Errorf("result %d: %w", i, err)
			}
			results = append(results, r)
		}
		return results, nil
	default:
		return nil, fmt.Errorf("%s must return None, a dict or a list, got %T", FuncName, value)
	}
}

func toResult(m map[string]any) (core.RouteResult, error) {
	path, _ := m["path"].(string)
	if path == "" {
		return core.RouteResult{}, fmt.Errorf("result has no path")
	}
	format, _ := m["format"].(string)
	switch format {
	case core.FormatJSON, core.FormatYAML, core.FormatFrontmatterMarkdown:
	default:
		return core.RouteResult{}, fmt.Errorf("result for %s has unknown format %q", path, format)
	}
	appendFlag, _ := m["append"].(bool)

	return core.RouteResult{
		Content: m["content"],
		Format:  format,
		Path:    path,
		Append:  appendFlag,
	}, nil
}

func scriptError(path string, err error) *ScriptError {
	se := &ScriptError{File: path, Message: err.Error()}
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		se.Message = evalErr.Msg
		se.Backtrace = evalErr.Backtrace()
	}
	return se
}
