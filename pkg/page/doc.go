/*
Package page holds the peripheral behaviors of the portfolio page as pure
functions and small state holders: the mobile menu, scroll-driven navigation
highlighting, anchor scrolling, reveal-on-visibility, lazy images, the message
character counter and the hidden-tab title.

Nothing here touches a DOM. The js/wasm binding in internal/dom and the server
rendered page both call into this package, so the rules live in one place.
*/
package page
