package measure

import (
	"encoding/json"
	"testing"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

type recordingWidget struct {
	active Variant
	calls  []string
	clears int
}

func (w *recordingWidget) SetActiveTool(v Variant) {
	w.active = v
	w.calls = append(w.calls, "tool:"+string(v))
}

func (w *recordingWidget) Clear() {
	w.active = VariantNone
	w.clears++
	w.calls = append(w.calls, "clear")
}

func TestSelectDistanceVariants(t *testing.T) {
	tests := []struct {
		name   string
		active viewpoint.Kind
		want   Variant
	}{
		{"Planar", viewpoint.Planar, VariantDistance},
		{"Perspective", viewpoint.Perspective, VariantDirectLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &recordingWidget{}
			c := NewController(w, nil)
			c.SelectDistance(tt.active)

			if w.active != tt.want {
				t.Errorf("engaged %q, want %q", w.active, tt.want)
			}
			want := State{Tool: Distance, DistanceActive: true}
			if c.State() != want {
				t.Errorf("State() = %+v, want %+v", c.State(), want)
			}
		})
	}
}

func TestToolMutualExclusivity(t *testing.T) {
	w := &recordingWidget{}
	c := NewController(w, nil)

	c.SelectDistance(viewpoint.Planar)
	c.SelectArea()

	st := c.State()
	if st.Tool != Area || !st.AreaActive || st.DistanceActive {
		t.Errorf("after distance then area: %+v", st)
	}
	if w.active != VariantArea {
		t.Errorf("widget tool = %q", w.active)
	}

	c.SelectDistance(viewpoint.Perspective)
	st = c.State()
	if st.Tool != Distance || st.AreaActive || !st.DistanceActive {
		t.Errorf("after area then distance: %+v", st)
	}
}

func TestReselectIsReengagement(t *testing.T) {
	w := &recordingWidget{}
	c := NewController(w, nil)

	c.SelectArea()
	c.SelectArea()

	if c.Tool() != Area {
		t.Errorf("Tool() = %v", c.Tool())
	}
	if len(w.calls) != 2 || w.calls[1] != "tool:area" {
		t.Errorf("expected two engagements, got %v", w.calls)
	}
}

func TestClear(t *testing.T) {
	w := &recordingWidget{}
	c := NewController(w, nil)

	c.SelectDistance(viewpoint.Planar)
	c.Clear()

	if c.State() != (State{}) {
		t.Errorf("State() after clear = %+v", c.State())
	}
	if w.clears != 1 {
		t.Errorf("widget cleared %d times, want 1", w.clears)
	}
}

func TestClearWhenNoneIsNoop(t *testing.T) {
	w := &recordingWidget{}
	c := NewController(w, nil)

	c.Clear()
	c.Clear()

	if c.State() != (State{}) {
		t.Errorf("State() = %+v", c.State())
	}
	if len(w.calls) != 0 {
		t.Errorf("widget touched on redundant clear: %v", w.calls)
	}
}

func TestToolString(t *testing.T) {
	for tool, want := range map[Tool]string{None: "none", Distance: "distance", Area: "area", Tool(9): "unknown"} {
		if got := tool.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", tool, got, want)
		}
	}
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		in      string
		want    Tool
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"distance", Distance, false},
		{" Area ", Area, false},
		{"direct-line", None, true},
		{"unknown", None, true},
	}
	for _, tt := range tests {
		got, err := ParseTool(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTool(%q) = %v, %v; want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	for _, st := range []State{
		{},
		{Tool: Distance, DistanceActive: true},
		{Tool: Area, AreaActive: true},
	} {
		data, err := json.Marshal(st)
		if err != nil {
			t.Fatalf("Marshal(%+v) error = %v", st, err)
		}
		var got State
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if got != st {
			t.Errorf("round trip of %s = %+v, want %+v", data, got, st)
		}
	}

	var st State
	if err := json.Unmarshal([]byte(`{"tool":"ruler"}`), &st); err == nil {
		t.Error("Unmarshal() accepted an unknown tool")
	}
}
