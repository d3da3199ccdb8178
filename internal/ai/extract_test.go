package ai

import "testing"

func TestExtractText_PrimaryFieldUnescapesNewlines(t *testing.T) {
	raw := `{"ai_response":"Linea uno\nLinea dos\tcon tab"}`
	got := ExtractText(raw)
	want := "Linea uno\nLinea dos\tcon tab"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractText_SecondaryField(t *testing.T) {
	raw := `{"response":"respuesta directa"}`
	if got := ExtractText(raw); got != "respuesta directa" {
		t.Fatalf("expected secondary field value, got %q", got)
	}
}

func TestExtractText_PrimaryWinsOverSecondary(t *testing.T) {
	raw := `{"response":"no","ai_response":"si"}`
	if got := ExtractText(raw); got != "si" {
		t.Fatalf("expected primary field to win, got %q", got)
	}
}

func TestExtractText_FallbackFieldsInOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"text", `{"text":"t"}`, "t"},
		{"message", `{"message":"m"}`, "m"},
		{"output", `{"output":"o"}`, "o"},
		{"result", `{"result":"r"}`, "r"},
		{"data", `{"data":"d"}`, "d"},
		{"text antes que message", `{"message":"m","text":"t"}`, "t"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExtractText(c.raw); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestExtractText_SanitizesEmbeddedRawNewline(t *testing.T) {
	// Newline crudo adentro del value: el parseo directo falla, la versión
	// sanitizada debe dar el mismo resultado que si viniera pre-escapado.
	raw := "{\"ai_response\":\"primera linea\nsegunda linea\"}"
	preEscaped := `{"ai_response":"primera linea\nsegunda linea"}`

	got := ExtractText(raw)
	want := ExtractText(preEscaped)
	if got != want {
		t.Fatalf("sanitized parse mismatch: got %q want %q", got, want)
	}
	if want != "primera linea\nsegunda linea" {
		t.Fatalf("unexpected baseline extraction: %q", want)
	}
}

func TestExtractText_MalformedFallsBackToRegex(t *testing.T) {
	raw := `garbage before {"ai_response":"rescatado por regex", trailing junk`
	if got := ExtractText(raw); got != "rescatado por regex" {
		t.Fatalf("expected regex capture, got %q", got)
	}
}

func TestExtractText_NoMatchReturnsVerbatim(t *testing.T) {
	raw := "texto plano sin estructura alguna"
	if got := ExtractText(raw); got != raw {
		t.Fatalf("expected verbatim passthrough, got %q", got)
	}
}

func TestExtractText_UnrecognizedJSONReturnsVerbatim(t *testing.T) {
	raw := `{"other_field": 42}`
	if got := ExtractText(raw); got != raw {
		t.Fatalf("expected original string for unrecognized shape, got %q", got)
	}
}

func TestExtract_StructuredValue(t *testing.T) {
	v := map[string]any{"ai_response": `hola\nmundo`}
	if got := Extract(v); got != "hola\nmundo" {
		t.Fatalf("expected unescaped primary field, got %q", got)
	}
}

func TestExtract_StructuredValueWithoutKnownFieldStringifies(t *testing.T) {
	v := map[string]any{"status": "ok"}
	if got := Extract(v); got != `{"status":"ok"}` {
		t.Fatalf("expected canonical stringified form, got %q", got)
	}
}

func TestExtractFromValue_IgnoresNonStringAndEmptyFields(t *testing.T) {
	m := map[string]any{
		"ai_response": 123,
		"response":    "",
		"message":     "valido",
	}
	got, ok := ExtractFromValue(m)
	if !ok || got != "valido" {
		t.Fatalf("expected fallback to message field, got %q ok=%v", got, ok)
	}
}
