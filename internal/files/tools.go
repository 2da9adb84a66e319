package files

import (
	"context"
	"encoding/base64"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/params"
	"erpnext-mcp/pkg/result"
)

type FileToolsDeps struct {
	*configs.Config
	Client *erpnext.Client
}

type FileTools struct {
	*configs.Config
	client *erpnext.Client
}

// NewFileTools registers the file attachment tools.
func NewFileTools(s *server.MCPServer, deps FileToolsDeps) *FileTools {
	t := &FileTools{
		Config: deps.Config,
		client: deps.Client,
	}

	s.AddTool(mcp.NewTool("upload_file",
		mcp.WithDescription("Upload a file, optionally attaching it to a document."),
		mcp.WithString("file_content_base64", mcp.Required(), mcp.Description("File content encoded as base64")),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Name for the uploaded file, e.g. \"report.pdf\"")),
		mcp.WithString("attached_to_doctype", mcp.Description("Optional DocType to attach the file to")),
		mcp.WithString("attached_to_name", mcp.Description("Optional document name to attach the file to")),
		mcp.WithBoolean("is_private", mcp.Description("Whether the file is private (default true)")),
	), t.UploadFile)

	s.AddTool(mcp.NewTool("upload_file_from_url",
		mcp.WithDescription("Fetch a file from a URL and upload it."),
		mcp.WithString("file_url", mcp.Required(), mcp.Description("Source URL to fetch the file from")),
		mcp.WithString("filename", mcp.Description("Optional name for the file (inferred from the URL if absent)")),
		mcp.WithString("attached_to_doctype", mcp.Description("Optional DocType to attach the file to")),
		mcp.WithString("attached_to_name", mcp.Description("Optional document name to attach the file to")),
		mcp.WithBoolean("is_private", mcp.Description("Whether the file is private (default true)")),
	), t.UploadFileFromURL)

	s.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List files, optionally filtered by attachment target and privacy."),
		mcp.WithString("attached_to_doctype", mcp.Description("Filter by DocType, e.g. \"Project\"")),
		mcp.WithString("attached_to_name", mcp.Description("Filter by document name, e.g. \"PROJ-0001\"")),
		mcp.WithBoolean("is_private", mcp.Description("Filter by privacy; omit for all files")),
		mcp.WithNumber("limit", mcp.Description("Max files to return (default 20)")),
	), t.ListFiles)

	s.AddTool(mcp.NewTool("get_file_url",
		mcp.WithDescription("Get the full download URL of a file."),
		mcp.WithString("file_name", mcp.Required(), mcp.Description("The File record name")),
	), t.GetFileURL)

	s.AddTool(mcp.NewTool("download_file",
		mcp.WithDescription("Download a file's content as base64."),
		mcp.WithString("file_name", mcp.Required(), mcp.Description("The File record name")),
	), t.DownloadFile)

	return t
}

func (t *FileTools) UploadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoded, err := req.RequireString("file_content_base64")
	if err != nil {
		return result.Error(err), nil
	}
	filename, err := req.RequireString("filename")
	if err != nil {
		return result.Error(err), nil
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return result.Error(&erpnext.Error{
			Kind:    erpnext.KindValidation,
			Message: `parameter "file_content_base64" is not valid base64: ` + err.Error(),
		}), nil
	}

	doc, err := t.client.UploadFile(ctx, content, filename,
		req.GetString("attached_to_doctype", ""),
		req.GetString("attached_to_name", ""),
		req.GetBool("is_private", true),
	)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(doc), nil
}

func (t *FileTools) UploadFileFromURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileURL, err := req.RequireString("file_url")
	if err != nil {
		return result.Error(err), nil
	}

	doc, err := t.client.UploadFileFromURL(ctx, fileURL,
		req.GetString("filename", ""),
		req.GetString("attached_to_doctype", ""),
		req.GetString("attached_to_name", ""),
		req.GetBool("is_private", true),
	)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(doc), nil
}

func (t *FileTools) ListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := t.client.ListFiles(ctx,
		req.GetString("attached_to_doctype", ""),
		req.GetString("attached_to_name", ""),
		params.OptionalBool(req.GetArguments(), "is_private"),
		req.GetInt("limit", erpnext.DefaultPageLength),
	)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(docs), nil
}

func (t *FileTools) GetFileURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileName, err := req.RequireString("file_name")
	if err != nil {
		return result.Error(err), nil
	}

	target, err := t.client.FileURL(ctx, fileName)
	if err != nil {
		return result.Error(err), nil
	}
	return mcp.NewToolResultText(target), nil
}

func (t *FileTools) DownloadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileName, err := req.RequireString("file_name")
	if err != nil {
		return result.Error(err), nil
	}

	content, original, err := t.client.DownloadFile(ctx, fileName)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(map[string]any{
		"content_base64": base64.StdEncoding.EncodeToString(content),
		"filename":       original,
	}), nil
}
