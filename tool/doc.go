// Package tool provides the tool registry and the built-in tools of scout.
//
// A [Registry] maps unique names to [Descriptor] values (definition plus
// handler). It is populated once at startup, frozen, and then shared
// read-only by every agent that uses it.
//
// # Defining Tools
//
// Define tool arguments as a struct with tags, then use Func or Bind:
//
//	type LookupArgs struct {
//	    BookingID string `json:"booking_id" desc:"Booking ID" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_booking_details", "Look up a booking",
//	        func(ctx context.Context, args LookupArgs) (string, error) {
//	            return lookup(ctx, args.BookingID)
//	        }),
//	)
//	registry.Freeze()
//
// Arguments are decoded with [DecodeArgs], which repairs common model
// mistakes (code fences, trailing commas, bare strings) before giving up.
//
// # Supported Struct Tags
//
//	json:"name"      - Property name
//	desc:"text"      - Description for the model
//	required:"true"  - Mark field as required
//	enum:"a,b,c"     - Allowed values (comma-separated)
//
// # Built-in Tools
//
//   - web_search: [NewSearchTool] over any [Searcher]
//   - web_crawl: [NewCrawlTool] over any [Crawler]
//   - web_extract: [NewExtractTool] over any [Extractor]
//   - format_response: [NewFormatterTool] over a scout.ChatProvider
//
// Web tools never fail the agent: backend errors and empty result sets come
// back to the model as plain text.
package tool
