package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// El webhook de Make no tiene un shape contractual fijo: a veces manda
// {"ai_response": "..."}, a veces otros campos, a veces texto plano con
// saltos de línea crudos adentro del JSON. La extracción degrada por
// estrategias ordenadas en vez de fallar: cada una se intenta en secuencia
// y la primera que produce texto gana.
type extractStrategy struct {
	name string
	fn   func(raw string) (string, bool)
}

var rawStrategies = []extractStrategy{
	{name: "json_fields", fn: extractViaJSON},
	{name: "regex_primary", fn: extractPrimaryByRegex},
}

// fallbackFields se prueban en orden cuando no hay campo primario ni secundario.
var fallbackFields = []string{"text", "message", "output", "result", "data"}

// Extract convierte un payload del webhook (string crudo o valor ya parseado)
// en texto plano para el usuario. Nunca falla: como último recurso devuelve
// el string original o la forma JSON canónica del valor estructurado.
func Extract(v any) string {
	switch val := v.(type) {
	case string:
		return ExtractText(val)
	case map[string]any:
		if text, ok := ExtractFromValue(val); ok {
			return text
		}
		return stringifyValue(val)
	default:
		return stringifyValue(v)
	}
}

// ExtractText aplica las estrategias ordenadas sobre un payload crudo.
func ExtractText(raw string) string {
	for _, s := range rawStrategies {
		if text, ok := s.fn(raw); ok {
			return text
		}
	}
	return raw
}

// ExtractFromValue aplica la prioridad de campos sobre un valor ya parseado:
// ai_response (con unescape de \n y \t literales), luego response, luego los
// campos de fallback en orden.
func ExtractFromValue(m map[string]any) (string, bool) {
	if s, ok := m["ai_response"].(string); ok && s != "" {
		return unescapeLiteralEscapes(s), true
	}
	if s, ok := m["response"].(string); ok && s != "" {
		return s, true
	}
	for _, field := range fallbackFields {
		if s, ok := m[field].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// extractViaJSON parsea el payload como JSON y reusa la prioridad de campos.
// Si el parseo directo falla, sanitiza los control chars crudos (CR/LF/TAB
// embebidos dentro de values) y reintenta.
func extractViaJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, candidate := range []string{trimmed, sanitizeControlChars(trimmed)} {
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		if m, ok := parsed.(map[string]any); ok {
			if text, ok := ExtractFromValue(m); ok {
				return text, true
			}
		}
	}
	return "", false
}

// sanitizeControlChars reemplaza CR/LF/TAB crudos por su escape de dos
// caracteres para que el parseo estructural no se caiga con newlines
// embebidos dentro de un value.
func sanitizeControlChars(s string) string {
	replacer := strings.NewReplacer(
		"\r", `\r`,
		"\n", `\n`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}

// extractPrimaryByRegex rescata "ai_response":"..." directo del texto crudo
// cuando el JSON está demasiado roto para parsear.
func extractPrimaryByRegex(raw string) (string, bool) {
	re := regexp.MustCompile(`(?is)"ai_response"\s*:\s*"((?:\\.|[^"\\])*)"`)
	m := re.FindStringSubmatch(raw)
	if len(m) < 2 {
		return "", false
	}

	captured := m[1]
	unq, err := strconv.Unquote(`"` + captured + `"`)
	if err != nil {
		unq = unescapeLiteralEscapes(captured)
	}
	unq = strings.TrimSpace(unq)
	if unq == "" {
		return "", false
	}
	return unq, true
}

// unescapeLiteralEscapes convierte secuencias \n y \t literales en los
// caracteres reales de newline/tab.
func unescapeLiteralEscapes(s string) string {
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}

func stringifyValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
