package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/page"
	"github.com/goliatone/go-formguard/pkg/themes"
	"github.com/goliatone/go-formguard/pkg/validation"
)

func (a *App) newForm() (*form.Form, error) {
	opts, err := a.cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return form.New(opts...), nil
}

func (a *App) newPageRenderer() (*page.Renderer, error) {
	selector, err := themes.NewSelector(a.cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	return page.New(page.WithThemeSelector(selector))
}

// readValues decodes a JSON object of field values from path, or from in when
// path is "-". Unknown field identifiers are rejected.
func readValues(path string, in io.Reader) (map[string]string, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cli: read values: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("cli: decode values: %w", err)
	}
	known := make(map[string]struct{}, len(validation.FormFields))
	for _, fieldID := range validation.FormFields {
		known[fieldID] = struct{}{}
	}
	for key := range values {
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("cli: unknown field %q", key)
		}
	}
	return values, nil
}
