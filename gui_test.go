package autograph

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGui_PointerEvents(t *testing.T) {
	cases := []struct {
		name   string
		source pointer.Source
	}{
		{name: "mouse", source: pointer.Mouse},
		{name: "touch", source: pointer.Touch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(t, 200, 100)
			g := NewGUI(s, t.TempDir())

			g.handlePointer(pointer.Event{Type: pointer.Press, Source: tc.source, Position: f32.Pt(20, 50)})
			assert.True(t, s.Pad().Drawing())
			g.handlePointer(pointer.Event{Type: pointer.Drag, Source: tc.source, Position: f32.Pt(120, 50)})
			g.handlePointer(pointer.Event{Type: pointer.Release, Source: tc.source, Position: f32.Pt(120, 50)})
			assert.False(t, s.Pad().Drawing())

			assert.Equal(t, uint8(0xff), s.Pad().Image().NRGBAAt(70, 50).A)

			// Moving after the release leaves no trace.
			g.handlePointer(pointer.Event{Type: pointer.Drag, Source: tc.source, Position: f32.Pt(70, 90)})
			assert.Equal(t, uint8(0), s.Pad().Image().NRGBAAt(95, 70).A)
		})
	}
}

func TestGui_LeaveEndsStroke(t *testing.T) {
	s := newSession(t, 200, 100)
	g := NewGUI(s, t.TempDir())

	g.handlePointer(pointer.Event{Type: pointer.Press, Source: pointer.Mouse, Position: f32.Pt(20, 50)})
	g.handlePointer(pointer.Event{Type: pointer.Leave, Source: pointer.Mouse, Position: f32.Pt(0, 50)})
	assert.False(t, s.Pad().Drawing())
}

func TestGui_Actions(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := newSession(t, 200, 100)
	g := NewGUI(s, dir)

	// Downloading before generating does nothing.
	g.download()
	assert.Empty(g.alert)
	assert.Empty(g.saved)

	g.generate()
	assert.Equal(ErrMissingName.Error(), g.alert)
	g.alert = ""

	g.name.SetText("Ana Maria")
	g.generate()
	assert.Equal(ErrMissingSignature.Error(), g.alert)
	g.alert = ""

	g.handlePointer(pointer.Event{Type: pointer.Press, Source: pointer.Mouse, Position: f32.Pt(20, 50)})
	g.handlePointer(pointer.Event{Type: pointer.Drag, Source: pointer.Mouse, Position: f32.Pt(150, 30)})
	g.handlePointer(pointer.Event{Type: pointer.Release, Source: pointer.Mouse, Position: f32.Pt(150, 30)})

	g.generate()
	assert.Empty(g.alert)
	require.NotNil(t, s.Artifact())

	g.download()
	assert.Empty(g.alert)
	assert.FileExists(g.saved)

	g.clear()
	assert.Empty(g.saved)
	assert.Nil(s.Artifact())
}

func TestGui_NameEchoAndButtons(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, 200, 100)
	g := NewGUI(s, t.TempDir())

	assert.Equal(namePlaceholder, g.nameEcho())
	g.name.SetText("Ana Maria")
	assert.Equal("Ana Maria", g.nameEcho())

	assert.True(g.canGenerate())
	g.handlePointer(pointer.Event{Type: pointer.Press, Source: pointer.Mouse, Position: f32.Pt(20, 50)})
	g.handlePointer(pointer.Event{Type: pointer.Drag, Source: pointer.Mouse, Position: f32.Pt(150, 30)})
	g.handlePointer(pointer.Event{Type: pointer.Release, Source: pointer.Mouse, Position: f32.Pt(150, 30)})
	g.generate()
	require.NotNil(t, s.Artifact())

	// Once the preview exists only the download is offered, until the surface is cleared.
	assert.False(g.canGenerate())
	g.clear()
	assert.True(g.canGenerate())

	g.name.SetText("")
	assert.Equal(namePlaceholder, g.nameEcho())
}
