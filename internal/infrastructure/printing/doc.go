// Package printing renders invoice documents: an html/template produces the
// page, money is formatted for the configured locale with golang.org/x/text,
// and headless Chrome prints it to PDF through chromedp.
package printing
