package emit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flatkey/internal/doc"
)

func TestWriterTextStreamsOutputs(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("text", &buf, nil)

	require.NoError(t, w.SetOutput("name", doc.String("svc")))
	require.NoError(t, w.SetOutput("port", doc.Int(8080)))
	require.NoError(t, w.Flush())

	assert.Equal(t, "name = svc\nport = 8080\n", buf.String())
}

func TestWriterTextEnvExportsAfterOutputs(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("text", &buf, nil)

	require.NoError(t, w.SetOutput("a", doc.String("1")))
	require.NoError(t, w.ExportEnv("APP_a", "1"))
	require.NoError(t, w.SetOutput("b", doc.String("2")))
	require.NoError(t, w.ExportEnv("APP_b", "2"))
	require.NoError(t, w.Flush())

	want := "a = 1\nb = 2\nexport APP_a=\"1\"\nexport APP_b=\"2\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterJSONSingleObject(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("json", &buf, nil)

	require.NoError(t, w.SetOutput("name", doc.String("svc")))
	require.NoError(t, w.SetOutput("items", doc.Sequence{doc.Int(1), doc.Int(2)}))
	require.NoError(t, w.ExportEnv("APP_name", "svc"))
	require.NoError(t, w.Flush())

	var payload struct {
		Outputs []struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		} `json:"outputs"`
		Env map[string]string `json:"env"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	require.Len(t, payload.Outputs, 2)
	assert.Equal(t, "name", payload.Outputs[0].Key)
	assert.Equal(t, "svc", payload.Outputs[0].Value)
	assert.Equal(t, "items", payload.Outputs[1].Key)
	assert.Equal(t, []any{float64(1), float64(2)}, payload.Outputs[1].Value)
	assert.Equal(t, map[string]string{"APP_name": "svc"}, payload.Env)
}

func TestWriterJSONKeepsDuplicateKeys(t *testing.T) {
	// A filter rewrite can strip two distinct source keys down to the
	// same output key; both entries must survive in JSON mode just as
	// both lines appear in text mode
	var buf bytes.Buffer
	w := NewWriter("json", &buf, nil)

	require.NoError(t, w.SetOutput("x", doc.Int(1)))
	require.NoError(t, w.SetOutput("x", doc.Int(2)))
	require.NoError(t, w.Flush())

	var payload struct {
		Outputs []struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		} `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	require.Len(t, payload.Outputs, 2)
	assert.Equal(t, "x", payload.Outputs[0].Key)
	assert.Equal(t, float64(1), payload.Outputs[0].Value)
	assert.Equal(t, "x", payload.Outputs[1].Key)
	assert.Equal(t, float64(2), payload.Outputs[1].Value)
}

func TestEnvFileWritesOnFlushOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	f := NewEnvFile(path)

	require.NoError(t, f.ExportEnv("APP_NAME", "svc"))
	require.NoError(t, f.ExportEnv("APP_MOTD", "hello world"))
	require.NoError(t, f.ExportEnv("APP_EMPTY", ""))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must not exist before Flush")

	require.NoError(t, f.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "APP_NAME=svc\nAPP_MOTD=\"hello world\"\nAPP_EMPTY=\"\"\n", string(data))
}

func TestQuoteEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"has space", `"has space"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a$b", `"a\$b"`},
		{"line\nbreak", `"line\nbreak"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteEnvValue(tt.in), tt.in)
	}
}

func TestMultiFansOutInOrder(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewWriter("text", &a, nil), NewWriter("text", &b, nil)}

	require.NoError(t, m.SetOutput("k", doc.String("v")))

	assert.Equal(t, "k = v\n", a.String())
	assert.Equal(t, "k = v\n", b.String())
}
