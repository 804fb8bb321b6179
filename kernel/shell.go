package kernel

import (
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// ConvertShell converts the faces of s over shared topology and returns a
// *topo.Solid when s is flagged closed and every edge bounds exactly two
// faces, otherwise the *topo.Shell. Faces that fail to convert are logged
// and left out.
//
// Without a WithFacesetHelper option a helper is created for the call
// from the shell's polyhedral loops.
func (k *Kernel) ConvertShell(s *taxonomy.Shell, opts ...ConvertOption) (sh topo.Shape, err error) {
	c := k.begin(s, opts)
	defer c.recover(&err)
	return c.shell(s)
}

func (c *conversion) shell(s *taxonomy.Shell) (topo.Shape, error) {
	c = c.at(s)
	if c.helper == nil {
		var loops []*taxonomy.Loop
		for _, f := range s.Faces {
			for _, l := range f.Loops {
				if l.IsPolyhedral() {
					loops = append(loops, l)
				}
			}
		}
		c.helper = NewFacesetHelper(c.p, loops...)
	}

	var faces []topo.Face
	for _, f := range s.Faces {
		shape, err := c.face(f)
		if err != nil {
			c.at(f).log.Error("failed to convert shell face", "err", err)
			continue
		}
		faces = append(faces, topo.Faces(shape)...)
	}
	if len(faces) == 0 {
		c.log.Error("shell without faces")
		return nil, fail(s, ErrNoBoundaries)
	}

	shell := topo.NewShell(faces...)
	if c.helper.NonManifold {
		c.log.Warn("shell triangulation is not manifold")
	}
	if !s.Closed {
		return shell, nil
	}
	if !shell.Closed() {
		c.log.Warn("closed shell has free or non-manifold edges, keeping open shell")
		return shell, nil
	}
	return topo.NewSolid(shell), nil
}
