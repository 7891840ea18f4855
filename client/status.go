package client

import (
	"time"
)

// sayStatus answers "!!PCRC status", matching Recorder.get_status.
func (c *Client) sayStatus() {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		c.sayf("not recording")
		return
	}
	c.sayf("%s", rec.Status(time.Now()))
}

// sayPosition answers "!!PCRC pos", matching the position branch of
// on_command.
func (c *Client) sayPosition() {
	c.mu.Lock()
	proc := c.proc
	c.mu.Unlock()
	if proc == nil {
		c.sayf("position unknown")
		return
	}
	pos := proc.SelfPosition()
	c.sayf("x=%.1f y=%.1f z=%.1f", pos.X, pos.Y, pos.Z)
}

// sayMarkers answers "!!PCRC marker" / "!!PCRC marker list", matching
// print_markers.
func (c *Client) sayMarkers() {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		c.sayf("not recording")
		return
	}
	markers := rec.Markers()
	if len(markers) == 0 {
		c.sayf("no markers")
		return
	}
	for i, m := range markers {
		c.sayf("%d: %s", i+1, m.Value.Name)
	}
}

// addMarker backs "!!PCRC marker add [name]", matching add_marker.
func (c *Client) addMarker(name string) {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		c.sayf("not recording")
		return
	}
	m, err := rec.AddMarker(name, time.Now())
	if err != nil {
		c.sayf("failed to add marker: %v", err)
		return
	}
	c.sayf("marker added: %s", m.Value.Name)
}

// deleteMarker backs "!!PCRC marker del <index>", matching
// delete_marker's bounds check.
func (c *Client) deleteMarker(index int) {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		c.sayf("not recording")
		return
	}
	if _, err := rec.DeleteMarker(index); err != nil {
		c.sayf("wrong argument")
		return
	}
	c.sayf("marker %d deleted", index)
}

// setFileName backs "!!PCRC name <file-name>", matching set_file_name.
func (c *Client) setFileName(name string) {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		c.sayf("not recording")
		return
	}
	rec.SetFileName(name)
	c.sayf("file name set to %s", name)
}
