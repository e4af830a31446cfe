package sprite

// Step advances the active sequence by one frame, moves walking sprites, and
// arms either the next frame or the hand-off to PickNext.
func (s *Session) Step() {
	if !s.running || s.seq == nil {
		return
	}

	drawn, delay := s.seq.Next(s.buf)
	if delay <= 0 {
		delay = DefaultDelay
	}
	if drawn {
		s.surface.SetPixels(s.buf)
		s.surface.MarkDirty()
	}

	moved := s.pose
	if dx, dy := s.current.Step(); dx != 0 || dy != 0 {
		moved.X += dx
		moved.Y += dy
	}
	moved = s.bounds.Wrap(moved)
	if moved != s.pose {
		s.pose = moved
		s.surface.SetPosition(s.pose.Rect())
	}

	if s.oneShot && s.seq.CurrentFrame() >= s.seq.TotalFrames() {
		s.timers.Cancel(s.frameT)
		s.frameT = 0
		if s.armChange(delay) {
			s.phase = AwaitingBehaviourChange
		}
		return
	}
	if s.armFrame(delay) {
		s.phase = Animating
	}
}
