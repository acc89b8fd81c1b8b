package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getStateTool defines the get_state MCP tool.
var getStateTool = mcp.NewTool("get_state",
	mcp.WithDescription("Get the current viewer state: visible spread, page count, zoom, sidebar and the active table-of-contents entry."),
)

// requestPageTool defines the request_page MCP tool.
var requestPageTool = mcp.NewTool("request_page",
	mcp.WithDescription("Jump to a page. Even pages show the spread they belong to, so page 4 displays pages 3 and 4. Out-of-range pages are clamped."),
	mcp.WithNumber("page",
		mcp.Required(),
		mcp.Description("Page number to show"),
	),
)

// nextSpreadTool defines the next_spread MCP tool.
var nextSpreadTool = mcp.NewTool("next_spread",
	mcp.WithDescription("Advance to the next two-page spread. Does nothing on the last spread."),
)

// prevSpreadTool defines the prev_spread MCP tool.
var prevSpreadTool = mcp.NewTool("prev_spread",
	mcp.WithDescription("Go back to the previous two-page spread. Does nothing on the first page."),
)

// zoomTool defines the zoom MCP tool.
var zoomTool = mcp.NewTool("zoom",
	mcp.WithDescription("Change the zoom level by a delta. The scale stays between 0.6 and 2.0."),
	mcp.WithNumber("delta",
		mcp.Required(),
		mcp.Description("Scale change, e.g. 0.1 to zoom in or -0.1 to zoom out"),
	),
)

// toggleSidebarTool defines the toggle_sidebar MCP tool.
var toggleSidebarTool = mcp.NewTool("toggle_sidebar",
	mcp.WithDescription("Open or close the table-of-contents sidebar."),
)

// listTOCTool defines the list_toc MCP tool.
var listTOCTool = mcp.NewTool("list_toc",
	mcp.WithDescription("List the table of contents with entry ids, target pages and the active entry."),
)

// selectTOCTool defines the select_toc MCP tool.
var selectTOCTool = mcp.NewTool("select_toc",
	mcp.WithDescription("Jump to a table-of-contents entry by id."),
	mcp.WithNumber("entry_id",
		mcp.Required(),
		mcp.Description("Entry id as shown by list_toc"),
	),
)

// getPageTextTool defines the get_page_text MCP tool.
var getPageTextTool = mcp.NewTool("get_page_text",
	mcp.WithDescription("Get the text of a page in reading order. Defaults to the pages of the current spread."),
	mcp.WithNumber("page",
		mcp.Description("Page number (optional)"),
	),
)

// reloadTool defines the reload_document MCP tool.
var reloadTool = mcp.NewTool("reload_document",
	mcp.WithDescription("Retry loading the document after a load failure."),
)
