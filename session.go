package autograph

import "image"

// Session ties the drawing surface to the compositor and keeps the last generated artifact.
// The artifact is available only after a successful generation and until the surface
// is cleared, resized or generated again.
type Session struct {
	pad      *Pad
	comp     *Compositor
	artifact *Artifact
}

// NewSession creates a session with an empty surface of the given size.
func NewSession(width, height int) (*Session, error) {
	comp, err := NewCompositor()
	if err != nil {
		return nil, err
	}
	return &Session{
		pad:  NewPad(width, height),
		comp: comp,
	}, nil
}

// Pad returns the drawing surface receiving the pointer events.
func (s *Session) Pad() *Pad {
	return s.pad
}

// Clear wipes the surface and forgets the last artifact.
func (s *Session) Clear() {
	s.pad.Reset()
	s.artifact = nil
}

// Resize adapts the surface to the displayed size, keeping the drawn pixels.
// The last artifact no longer matches the surface, so it is dropped if the size has changed.
func (s *Session) Resize(width, height int) {
	if s.pad.Resize(width, height) {
		s.artifact = nil
	}
}

// Generate composes the current surface with the name. On failure the previous artifact is discarded.
func (s *Session) Generate(name string) (*Artifact, error) {
	a, err := s.comp.Generate(name, s.pad.Image())
	if err != nil {
		s.artifact = nil
		return nil, err
	}
	s.artifact = a
	return a, nil
}

// Artifact returns the last generated artifact or nil.
func (s *Session) Artifact() *Artifact {
	return s.artifact
}

// Preview returns the bitmap of the last artifact or nil.
func (s *Session) Preview() image.Image {
	if s.artifact == nil {
		return nil
	}
	return s.artifact.Image
}

// Save exports the last artifact into dir. It returns an empty path if nothing has been generated.
func (s *Session) Save(dir string) (string, error) {
	return Export(s.artifact, dir)
}
