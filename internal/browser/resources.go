// CLAUDE:SUMMARY Request interception that blocks configured resource types (images, fonts, media) on the run's page.
package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// blockable maps CDP resource types to their config names.
var blockable = map[string]string{
	"image":      "images",
	"font":       "fonts",
	"media":      "media",
	"stylesheet": "stylesheets",
}

// applyResourceBlocking intercepts requests on page and fails the ones
// whose resource type is configured away. Singular and plural config names
// are both accepted.
func applyResourceBlocking(page *rod.Page, types []string) {
	blocked := make(map[string]bool, len(types))
	for _, t := range types {
		name := strings.ToLower(t)
		if mapped, ok := blockable[name]; ok {
			name = mapped
		}
		blocked[name] = true
	}

	router := page.HijackRequests()
	router.MustAdd("*", func(ctx *rod.Hijack) {
		name := strings.ToLower(string(ctx.Request.Type()))
		if mapped, ok := blockable[name]; ok {
			name = mapped
		}
		if blocked[name] {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
}
