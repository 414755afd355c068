//go:build js && wasm

package dom

import (
	"context"
	"log/slog"
	"strconv"
	"syscall/js"
	"time"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/page"
)

// Binding owns the page state of one browser tab. Every callback runs on the
// JS event loop; only the submission call leaves it, in its own goroutine.
type Binding struct {
	doc    js.Value
	win    js.Value
	ctrl   *form.Controller
	logger *slog.Logger

	form    *domain.Form
	painted *domain.Form
	menu    page.Menu
	reveal  *page.Revealer
	lazy    *page.LazyLoader
	title   string

	funcs []js.Func
}

// Option configures the Binding.
type Option func(*Binding)

// WithLogger sets the logger. Output goes to the browser console.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) {
		b.logger = logger
	}
}

// New binds ctrl to the current document.
func New(ctrl *form.Controller, opts ...Option) *Binding {
	b := &Binding{
		doc:    js.Global().Get("document"),
		win:    js.Global(),
		ctrl:   ctrl,
		logger: logging.NewNop(),
		form:   domain.NewForm("browser"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start installs every listener and begins the cosmetic effects.
func (b *Binding) Start() {
	b.title = b.doc.Get("title").String()
	for _, line := range page.ConsoleGreeting() {
		js.Global().Get("console").Call("log", line)
	}

	b.bindMenu()
	b.bindScroll()
	b.bindObservers()
	b.bindForm()
	b.bindSocial()
	b.on(b.doc, "visibilitychange", func(js.Value) {
		b.doc.Set("title", page.Title(b.doc.Get("hidden").Bool(), b.title))
	})
	b.typeHero()
	b.onScroll()
	b.paint()
}

// Release drops the Go callbacks. The page must not fire events afterwards.
func (b *Binding) Release() {
	for _, f := range b.funcs {
		f.Release()
	}
	b.funcs = nil
}

func (b *Binding) on(target js.Value, event string, fn func(ev js.Value)) {
	if target.IsNull() || target.IsUndefined() {
		return
	}
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	b.funcs = append(b.funcs, f)
	target.Call("addEventListener", event, f)
}

func (b *Binding) byID(id string) js.Value {
	return b.doc.Call("getElementById", id)
}

func (b *Binding) all(selector string) []js.Value {
	list := b.doc.Call("querySelectorAll", selector)
	out := make([]js.Value, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

// --- menu ---

func (b *Binding) bindMenu() {
	hamburger := b.byID("hamburger")
	menu := b.byID("nav-menu")

	b.on(hamburger, "click", func(js.Value) {
		b.menu.Toggle()
		b.paintMenu()
	})
	for _, link := range b.all(".nav-link") {
		b.on(link, "click", func(js.Value) {
			b.menu.CloseOnLink()
			b.paintMenu()
		})
	}
	b.on(b.doc, "click", func(ev js.Value) {
		target := ev.Get("target")
		inside := !menu.IsNull() && menu.Call("contains", target).Bool()
		onHamburger := !hamburger.IsNull() && hamburger.Call("contains", target).Bool()
		if b.menu.OutsideClick(inside, onHamburger) {
			b.paintMenu()
		}
	})
	b.on(b.doc, "keydown", func(ev js.Value) {
		if b.menu.Key(ev.Get("key").String()) {
			b.paintMenu()
		}
	})
}

func (b *Binding) paintMenu() {
	open := b.menu.Open()
	if m := b.byID("nav-menu"); !m.IsNull() {
		m.Get("classList").Call("toggle", "active", open)
	}
	if h := b.byID("hamburger"); !h.IsNull() {
		h.Get("classList").Call("toggle", "active", open)
		h.Call("setAttribute", "aria-expanded", strconv.FormatBool(open))
	}
	b.doc.Get("body").Get("style").Set("overflow", b.menu.BodyOverflow())
}

// --- scrolling ---

func (b *Binding) bindScroll() {
	b.on(b.win, "scroll", func(js.Value) { b.onScroll() })

	for _, a := range b.all(`a[href^="#"]`) {
		b.on(a, "click", func(ev js.Value) {
			href := a.Call("getAttribute", "href").String()
			inNav := !a.Call("closest", ".nav-menu").IsNull()
			inHero := !a.Call("closest", ".hero").IsNull()
			if page.PlaceholderLink(href, inNav, inHero) {
				ev.Call("preventDefault")
				return
			}
			if !page.IsAnchor(href) {
				return
			}
			ev.Call("preventDefault")
			top := 0.0
			if href != "#" {
				target := b.doc.Call("querySelector", href)
				if target.IsNull() {
					return
				}
				top = target.Call("getBoundingClientRect").Get("top").Float() + b.scrollY()
			}
			b.scrollTo(page.AnchorTarget(top))
		})
	}

	b.on(b.byID("scroll-top"), "click", func(js.Value) { b.scrollTo(0) })
}

func (b *Binding) scrollY() float64 {
	return b.win.Get("scrollY").Float()
}

func (b *Binding) scrollTo(y float64) {
	opts := js.Global().Get("Object").New()
	opts.Set("top", y)
	opts.Set("behavior", "smooth")
	b.win.Call("scrollTo", opts)
}

func (b *Binding) onScroll() {
	y := b.scrollY()

	if nav := b.byID("navbar"); !nav.IsNull() {
		nav.Get("classList").Call("toggle", "scrolled", page.NavbarScrolled(y))
	}
	if btn := b.byID("scroll-top"); !btn.IsNull() {
		btn.Set("hidden", !page.ScrollTopVisible(y))
	}

	var sections []page.Section
	for _, s := range b.all("section[id]") {
		sections = append(sections, page.Section{
			ID:     s.Get("id").String(),
			Top:    s.Get("offsetTop").Float(),
			Height: s.Get("clientHeight").Float(),
		})
	}
	active := page.NavActive(sections, y)
	for _, link := range b.all(".nav-link") {
		id := link.Get("dataset").Get("section").String()
		link.Get("classList").Call("toggle", "active", active[id])
	}
}

// --- observers ---

func (b *Binding) bindObservers() {
	var revealIDs []string
	for i, el := range b.all(".reveal") {
		id := ElementID(el.Get("id").String(), "reveal", i)
		el.Set("id", id)
		revealIDs = append(revealIDs, id)
	}
	b.reveal = page.NewRevealer(revealIDs...)

	var images []page.LazyImage
	for i, img := range b.all("img[data-src]") {
		id := ElementID(img.Get("id").String(), "lazy", i)
		img.Set("id", id)
		images = append(images, page.LazyImage{ID: id, DataSrc: img.Get("dataset").Get("src").String()})
	}
	b.lazy = page.NewLazyLoader(images...)

	fadeIn := func(el js.Value, visible bool) bool {
		if !b.reveal.Intersect(el.Get("id").String(), visible) {
			return false
		}
		el.Get("classList").Call("add", page.FadeInClass)
		return true
	}
	load := func(el js.Value, visible bool) bool {
		img, ok := b.lazy.Intersect(el.Get("id").String(), visible)
		if !ok {
			return false
		}
		el.Set("src", img.Src)
		el.Call("removeAttribute", "data-src")
		el.Get("classList").Call("remove", "lazy")
		return true
	}

	// Without observers everything is shown and loaded up front.
	if js.Global().Get("IntersectionObserver").IsUndefined() {
		for _, el := range b.all(".reveal") {
			fadeIn(el, true)
		}
		for _, el := range b.all("img[data-src]") {
			load(el, true)
		}
		return
	}
	b.observe(".reveal", fadeIn)
	b.observe("img[data-src]", load)
}

// observe watches the elements matching selector. fire reports whether the
// element is done and can be unobserved.
func (b *Binding) observe(selector string, fire func(el js.Value, visible bool) bool) {
	var observer js.Value
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			entry := entries.Index(i)
			el := entry.Get("target")
			if fire(el, entry.Get("isIntersecting").Bool()) {
				observer.Call("unobserve", el)
			}
		}
		return nil
	})
	b.funcs = append(b.funcs, cb)

	opts := js.Global().Get("Object").New()
	opts.Set("threshold", 0.1)
	observer = js.Global().Get("IntersectionObserver").New(cb, opts)
	for _, el := range b.all(selector) {
		observer.Call("observe", el)
	}
}

// --- hero ---

func (b *Binding) typeHero() {
	el := b.doc.Call("querySelector", "[data-type]")
	if el.IsNull() {
		return
	}
	tw := NewTypewriter(el.Get("dataset").Get("type").String())
	el.Set("textContent", "")
	go func() {
		t := time.NewTicker(TypeDelay)
		defer t.Stop()
		for range t.C {
			frame, ok := tw.Next()
			if !ok {
				return
			}
			el.Set("textContent", frame)
		}
	}()
}

// --- social ---

func (b *Binding) bindSocial() {
	nav := js.Global().Get("navigator")
	for _, a := range b.all(".social-link") {
		b.on(a, "click", func(js.Value) {
			label := a.Call("getAttribute", "aria-label").String()
			b.logger.Info("social click", "platform", page.SocialPlatform(label))
			if nav.Get("sendBeacon").IsUndefined() {
				return
			}
			body := string(Beacon(label))
			blobOpts := js.Global().Get("Object").New()
			blobOpts.Set("type", "application/json")
			blob := js.Global().Get("Blob").New(js.ValueOf([]any{body}), blobOpts)
			nav.Call("sendBeacon", "/api/analytics/social", blob)
		})
	}
}

// --- contact form ---

func (b *Binding) bindForm() {
	el := b.byID("contact-form")
	if el.IsNull() {
		return
	}
	for _, f := range b.form.Fields {
		id := f.ID
		input := b.byID(string(id))
		b.on(input, "blur", func(js.Value) {
			b.apply(b.ctrl.Blur(context.Background(), b.form, id))
		})
		b.on(input, "input", func(js.Value) {
			b.apply(b.ctrl.Input(context.Background(), b.form, id, input.Get("value").String()))
		})
	}
	b.on(el, "submit", func(ev js.Value) {
		ev.Call("preventDefault")
		b.submit()
	})
}

func (b *Binding) apply(next *domain.Form, err error) {
	if err != nil {
		b.logger.Warn("form event rejected", "err", err)
		return
	}
	b.form = next
	b.paint()
}

// submit runs the three submit phases. The backend call blocks on fetch, so
// it must not run on the event loop.
func (b *Binding) submit() {
	ctx := context.Background()
	next, sub, err := b.ctrl.BeginSubmit(ctx, b.form)
	b.apply(next, err)
	if err != nil || sub == nil {
		return
	}
	go func() {
		deliverErr := b.ctrl.Deliver(ctx, b.form.SessionID, *sub)
		b.form = b.ctrl.CompleteSubmit(ctx, b.form, deliverErr)
		b.paint()
	}()
}

func (b *Binding) paint() {
	f := b.form
	settled := Settled(b.painted, f)
	b.painted = f
	active := b.doc.Get("activeElement")
	for _, field := range f.Fields {
		input := b.byID(string(field.ID))
		if input.IsNull() {
			continue
		}
		group := input.Call("closest", ".form-group")
		if !group.IsNull() {
			group.Get("classList").Call("toggle", "error", field.Invalid)
			if msg := group.Call("querySelector", ".error-message"); !msg.IsNull() {
				msg.Set("textContent", field.Error)
			}
		}
		if WriteValue(input.Equal(active), settled) {
			input.Set("value", field.Value)
		}
	}

	ctl := f.Control()
	if btn := b.byID("submit-btn"); !btn.IsNull() {
		btn.Set("disabled", ctl.Disabled)
		btn.Get("classList").Call("toggle", "loading", ctl.Loading)
	}
	if msg := b.byID("form-message"); !msg.IsNull() {
		msg.Set("hidden", !f.Message.Visible)
		msg.Set("className", "form-message "+string(f.Message.Kind))
		msg.Set("textContent", f.Message.Text)
	}
	if counter := b.byID("char-counter"); !counter.IsNull() {
		c := page.CharCounter(f.Value(domain.FieldMessage))
		counter.Set("textContent", c.Text)
		counter.Get("classList").Call("toggle", "warning", c.Warning)
	}
}
