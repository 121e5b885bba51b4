package rpc

import (
	"fmt"
	"sort"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"tota/internal/assets"
	"tota/internal/preview"
)

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func requestFromStruct(s *structpb.Struct) (preview.Request, error) {
	req := preview.Request{
		ProjectID:     stringField(s, "projectId"),
		Code:          stringField(s, "code"),
		ComponentName: stringField(s, "componentName"),
		FilePath:      stringField(s, "filePath"),
	}
	if s == nil {
		return req, nil
	}
	req.Static = s.GetFields()["static"].GetBoolValue()
	for i, v := range s.GetFields()["files"].GetListValue().GetValues() {
		f := v.GetStructValue()
		if f == nil {
			return req, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("files[%d] must be an object", i))
		}
		req.Files = append(req.Files, assets.VirtualFile{
			Path:    stringField(f, "path"),
			Content: stringField(f, "content"),
		})
	}
	return req, nil
}

func filesToList(files []assets.VirtualFile, withContent bool) []any {
	sorted := append([]assets.VirtualFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	out := make([]any, 0, len(sorted))
	for _, f := range sorted {
		m := map[string]any{"path": f.Path, "kind": string(f.Kind)}
		if withContent {
			m["content"] = f.Content
		}
		out = append(out, m)
	}
	return out
}
