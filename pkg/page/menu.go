package page

// Overflow values for the document body.
const (
	OverflowHidden = "hidden"
	OverflowAuto   = "auto"
)

// Menu is the mobile navigation menu. The zero value is closed.
type Menu struct {
	open bool
}

// Open reports whether the menu (and the hamburger) are active.
func (m *Menu) Open() bool { return m.open }

// Toggle flips the menu, as a hamburger click does.
func (m *Menu) Toggle() { m.open = !m.open }

// Close closes the menu.
func (m *Menu) Close() { m.open = false }

// CloseOnLink handles a click on a navigation link.
func (m *Menu) CloseOnLink() { m.open = false }

// OutsideClick closes the menu for a click that landed neither inside the menu
// nor on the hamburger. It reports whether the click closed it.
func (m *Menu) OutsideClick(insideMenu, onHamburger bool) bool {
	if insideMenu || onHamburger || !m.open {
		return false
	}
	m.open = false
	return true
}

// Key handles a keydown. Escape closes an open menu.
func (m *Menu) Key(key string) bool {
	if key != "Escape" || !m.open {
		return false
	}
	m.open = false
	return true
}

// BodyOverflow is the body overflow style: scrolling is locked while the menu is open.
func (m *Menu) BodyOverflow() string {
	if m.open {
		return OverflowHidden
	}
	return OverflowAuto
}
