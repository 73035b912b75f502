package log

import (
	"strings"
	"testing"
	"time"
)

func TestConfigOptions(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithOutput(nil),
	)

	if c.mutex == nil {
		t.Fatal("options did not allocate a mutex")
	}

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("unexpected config %+v", c)
	}

	if c.output == nil {
		t.Error("WithOutput(nil) left a nil writer")
	}
}

func TestConfigDefaults(t *testing.T) {
	c := makeConfig(nil)

	if c.level != DefaultLevel || c.format != DefaultFormat ||
		c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("unexpected defaults %+v", c)
	}

	clone := c.clone(WithLevel(LevelError))
	if clone.mutex == c.mutex {
		t.Error("clone shares its mutex with the original")
	}

	if c.level != DefaultLevel || clone.level != LevelError {
		t.Errorf("clone levels: original %v, clone %v", c.level, clone.level)
	}
}

func TestTimeLayout(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:07Z"},
		{"rfc-3339-nano", "2024-03-09T14:05:07.123456789Z"},
		{"Kitchen", "2:05PM"},
		{"ms", "Mar  9 14:05:07.123"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestReplaceAttrLevel(t *testing.T) {
	var b strings.Builder

	l := Make(&b, WithLevel(LevelTrace), WithPretty(false), WithTimeLayout("none"))
	l.Trace("deep")

	if got := b.String(); !strings.Contains(got, "level=TRACE") {
		t.Errorf("trace record = %q", got)
	}

	if strings.Contains(b.String(), "time=") {
		t.Errorf("disabled timestamp still written: %q", b.String())
	}
}
