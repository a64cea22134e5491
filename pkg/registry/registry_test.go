package registry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// fakeTool is a registrable tool whose handler behavior is scripted.
type fakeTool struct {
	handle mcp.Tool
	calls  int
	result *mcp.CallToolResult
	err    error
	panics bool
	blocks bool
}

func (f *fakeTool) Handle() mcp.Tool { return f.handle }

func (f *fakeTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	if f.blocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func newFakeTool(name string) *fakeTool {
	return &fakeTool{
		handle: mcp.NewTool(
			name,
			mcp.WithDescription("test tool"),
			mcp.WithString("collection", mcp.Required(), mcp.Description("target collection")),
			mcp.WithNumber("limit", mcp.Description("page size")),
		),
		result: tools.Success(map[string]any{"ok": true}),
	}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultBody(res *mcp.CallToolResult) map[string]any {
	if res == nil || len(res.Content) == 0 {
		return nil
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(tc.Text), &body); err != nil {
		return nil
	}
	return body
}

func TestRegister(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		reg := New(time.Second)

		Convey("Registering a tool succeeds", func() {
			So(reg.Register(newFakeTool("firestore_get_document")), ShouldBeNil)
			So(reg.Names(), ShouldResemble, []string{"firestore_get_document"})
		})

		Convey("Registering the same name twice fails", func() {
			So(reg.Register(newFakeTool("firestore_get_document")), ShouldBeNil)
			So(reg.Register(newFakeTool("firestore_get_document")), ShouldNotBeNil)
		})

		Convey("Registering a nil tool fails", func() {
			So(reg.Register(nil), ShouldNotBeNil)
		})
	})
}

func TestDispatch(t *testing.T) {
	Convey("Given a registry with one tool", t, func() {
		reg := New(time.Second)
		tool := newFakeTool("firestore_get_document")
		So(reg.Register(tool), ShouldBeNil)

		Convey("A valid request reaches the handler", func() {
			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"collection": "users",
				"limit":      float64(10),
			}))

			So(res.IsError, ShouldBeFalse)
			So(len(res.Content), ShouldBeGreaterThan, 0)
			So(tool.calls, ShouldEqual, 1)
		})

		Convey("An unknown tool name yields a validation error without touching the handler", func() {
			res := reg.Dispatch(context.Background(), callRequest("no_such_tool", nil))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "validation")
			So(tool.calls, ShouldEqual, 0)
		})

		Convey("A missing required argument yields a validation error without touching the handler", func() {
			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"limit": float64(10),
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "validation")
			So(tool.calls, ShouldEqual, 0)
		})

		Convey("A wrongly typed argument yields a validation error without touching the handler", func() {
			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"collection": 42,
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "validation")
			So(tool.calls, ShouldEqual, 0)
		})

		Convey("A handler error is classified", func() {
			tool.result = nil
			tool.err = status.Error(codes.NotFound, "document missing")

			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"collection": "users",
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "not-found")
		})

		Convey("A handler panic becomes an unknown error result", func() {
			tool.panics = true

			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"collection": "users",
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "unknown")
		})

		Convey("A handler exceeding the call timeout yields a network error", func() {
			reg := New(20 * time.Millisecond)
			slow := newFakeTool("firestore_list_documents")
			slow.blocks = true
			So(reg.Register(slow), ShouldBeNil)

			res := reg.Dispatch(context.Background(), callRequest("firestore_list_documents", map[string]any{
				"collection": "users",
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "network")
		})

		Convey("A nil handler result becomes an unknown error result", func() {
			tool.result = nil

			res := reg.Dispatch(context.Background(), callRequest("firestore_get_document", map[string]any{
				"collection": "users",
			}))

			So(res.IsError, ShouldBeTrue)
			So(resultBody(res)["category"], ShouldEqual, "unknown")
		})
	})
}
