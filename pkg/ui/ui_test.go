package ui

import "testing"

func TestSlider_SetSnapsAndClamps(t *testing.T) {
	s := NewSlider(0, 0, 100, "food", 0, 500, 42.4)
	if s.Value != 42.4 {
		t.Errorf("value = %v; want 42.4", s.Value)
	}
	s.Step = 5
	s.Set(42.4)
	if s.Value != 40 {
		t.Errorf("snapped value = %v; want 40", s.Value)
	}
	s.Set(9000)
	if s.Value != 500 {
		t.Errorf("value = %v; want clamp to 500", s.Value)
	}
	s.Set(-3)
	if s.Value != 0 || s.Int() != 0 {
		t.Errorf("value = %v; want clamp to 0", s.Value)
	}
}

func TestSlider_Drag(t *testing.T) {
	s := NewSlider(10, 10, 100, "cpu", 0, 10, 0)
	s.Step = 1

	if !s.Update(Pointer{X: 60, Y: 15, Down: true}) || s.Int() != 5 {
		t.Fatalf("press on the track: value = %v", s.Value)
	}
	// the drag keeps following the pointer outside the track
	s.Update(Pointer{X: 500, Y: 300, Down: true})
	if s.Int() != 10 {
		t.Errorf("dragged value = %v; want 10", s.Value)
	}
	s.Update(Pointer{X: 500, Y: 300})
	if s.Update(Pointer{X: 10, Y: 300, Down: true}) {
		t.Error("a press outside the track must not start a drag")
	}
	if s.Text() != "10" {
		t.Errorf("Text() = %q", s.Text())
	}
}

func TestCheckbox_TogglesOncePerPress(t *testing.T) {
	c := NewCheckbox(0, 0, "human", false)
	in := Pointer{X: 5, Y: 5, Down: true}

	if !c.Update(in) || !c.Value {
		t.Fatal("press should toggle on")
	}
	if c.Update(in) || !c.Value {
		t.Error("holding the button must not toggle again")
	}
	c.Update(Pointer{X: 5, Y: 5})
	if !c.Update(in) || c.Value {
		t.Error("a second press should toggle off")
	}
}

func TestButton_FiresOnPressEdge(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 100, 20, "Reset", func() { clicks++ })

	b.Update(Pointer{X: 50, Y: 10, Down: true})
	b.Update(Pointer{X: 50, Y: 10, Down: true})
	b.Update(Pointer{X: 50, Y: 10})
	// a press that starts outside and slides in does not count
	b.Update(Pointer{X: 500, Y: 10, Down: true})
	b.Update(Pointer{X: 50, Y: 10, Down: true})
	if clicks != 1 {
		t.Errorf("clicks = %d; want 1", clicks)
	}
}

func TestPanel_LayoutAndInput(t *testing.T) {
	p := NewPanel(10, 10, 280, 600, "Arena")
	p.AddSection("Opponents")
	cpu := p.AddIntSlider("CPU", 0, 20, 5)
	p.AddSection("Player")
	human := p.AddCheckbox("Human", true)

	// title 30, header 25, label 15
	if cpu.X != 20 || cpu.Y != 80 {
		t.Fatalf("slider at (%v, %v); want (20, 80)", cpu.X, cpu.Y)
	}
	// slider row 35, header 25
	if human.Y != 140 {
		t.Fatalf("checkbox y = %v; want 140", human.Y)
	}

	if !p.Update(Pointer{X: 20 + 130, Y: 85, Down: true}) || cpu.Int() != 10 {
		t.Errorf("cpu = %v; want 10", cpu.Value)
	}
	p.Update(Pointer{})
	p.Update(Pointer{X: 25, Y: 145, Down: true})
	if human.Value {
		t.Error("checkbox should have toggled off")
	}

	p.Visible = false
	if p.Update(Pointer{X: 25, Y: 145}) || p.Contains(25, 145) {
		t.Error("a hidden panel must ignore input")
	}
}

func TestPanel_Scroll(t *testing.T) {
	p := NewPanel(0, 0, 200, 120, "Arena")
	p.AddSection("Many")
	for range 10 {
		p.AddSlider("s", 0, 1, 0)
	}

	p.Update(Pointer{X: 50, Y: 50, Wheel: 1})
	if p.ScrollOffset != 0 {
		t.Errorf("scroll = %v; want clamp at 0", p.ScrollOffset)
	}
	p.Update(Pointer{X: 50, Y: 50, Wheel: -2})
	if p.ScrollOffset != 40 {
		t.Errorf("scroll = %v; want 40", p.ScrollOffset)
	}
	p.Update(Pointer{X: 50, Y: 50, Wheel: -100})
	if want := p.contentHeight() - p.Height + 40; p.ScrollOffset != want {
		t.Errorf("scroll = %v; want clamp at %v", p.ScrollOffset, want)
	}
	p.Update(Pointer{X: 500, Y: 50, Wheel: 1})
	if p.ScrollOffset == 0 {
		t.Error("wheel outside the panel must not scroll it")
	}
}
