package http

import (
	"io"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/nao1215/markdown"
)

// landingPage renders the root page describing the service and its routes.
func landingPage(upstream string) string {
	md := markdown.NewMarkdown(io.Discard)

	md.H1("sosumi.ai")
	md.PlainText("")
	md.PlainText("Developer documentation, rendered as Markdown for text-based tools.")
	md.PlainText("")

	md.H2("Routes")
	md.PlainText("")
	md.BulletList(
		"`/documentation/<path>` mirrors "+upstream+" as Markdown",
		"`"+sosumi.ProxyPathPrefix+"<url>` renders documentation from other origins",
		"`/healthz` reports service health",
	)
	md.PlainText("")

	md.H2("Example")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightShell,
		"curl https://sosumi.ai/documentation/swift/array")
	md.PlainText("")

	md.H2("External origins")
	md.PlainText("")
	md.PlainText("External pages are fetched with the service's own user agent, honoring " +
		"each origin's robots.txt and the operator's host allow and block lists. " +
		"Responses carry an ETag and a short public cache lifetime.")

	return md.String()
}
