// Command folio serves the portfolio page and its contact form, and offers
// terminal tools around them.
package main

func main() {
	Execute()
}
