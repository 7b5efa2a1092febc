package mockapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

func (s *Server) routeFiles(g *echo.Group) {
	g.POST("/files", s.uploadFile)
	g.GET("/files", s.listFiles)
	g.GET("/files/:file_id", s.getFile)
	g.DELETE("/files/:file_id", s.deleteFile)
	g.GET("/files/:file_id/content", s.fileContent)
}

func (s *Server) uploadFile(c echo.Context) error {
	purpose := core.FileUploadPurpose(c.FormValue("purpose"))
	if purpose == "" {
		return invalidRequest(c, "purpose", "Missing required parameter: 'purpose'.")
	}
	if !purpose.Valid() {
		return invalidRequest(c, "purpose", "Invalid value for 'purpose': '%s'.", purpose)
	}
	header, err := c.FormFile("file")
	if err != nil {
		return invalidRequest(c, "file", "Missing required parameter: 'file'.")
	}
	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	info := core.FileInfo{
		ID:        newID("file-"),
		Object:    "file",
		Bytes:     int64(len(data)),
		CreatedAt: st.now(),
		Filename:  header.Filename,
		Purpose:   string(purpose),
		Status:    "processed",
	}
	st.files.put(info.ID, &info)
	st.fileData[info.ID] = data
	return c.JSON(http.StatusOK, info)
}

func (s *Server) listFiles(c echo.Context) error {
	purpose := c.QueryParam("purpose")
	s.state.mu.Lock()
	items := s.state.files.values()
	s.state.mu.Unlock()

	if purpose != "" {
		filtered := items[:0]
		for _, f := range items {
			if f.Purpose == purpose {
				filtered = append(filtered, f)
			}
		}
		items = filtered
	}
	return listJSON(c, items, func(f core.FileInfo) string { return f.ID })
}

func (s *Server) getFile(c echo.Context) error {
	id := c.Param("file_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	f, ok := s.state.files.get(id)
	if !ok {
		return notFound(c, "file", id)
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) deleteFile(c echo.Context) error {
	id := c.Param("file_id")
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.files.remove(id) {
		return notFound(c, "file", id)
	}
	delete(st.fileData, id)
	for storeID, assocs := range st.storeFiles {
		if assocs.remove(id) {
			st.refreshStore(storeID)
		}
	}
	return deleted(c, id, "file")
}

func (s *Server) fileContent(c echo.Context) error {
	id := c.Param("file_id")
	s.state.mu.Lock()
	data, ok := s.state.fileData[id]
	s.state.mu.Unlock()
	if !ok {
		return notFound(c, "file", id)
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
