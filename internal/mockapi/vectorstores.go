package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

func (s *Server) routeVectorStores(g *echo.Group) {
	g.POST("/vector_stores", s.createVectorStore)
	g.GET("/vector_stores", s.listVectorStores)
	g.GET("/vector_stores/:store_id", s.getVectorStore)
	g.POST("/vector_stores/:store_id", s.modifyVectorStore)
	g.DELETE("/vector_stores/:store_id", s.deleteVectorStore)

	g.POST("/vector_stores/:store_id/files", s.addStoreFile)
	g.GET("/vector_stores/:store_id/files", s.listStoreFiles)
	g.GET("/vector_stores/:store_id/files/:file_id", s.getStoreFile)
	g.DELETE("/vector_stores/:store_id/files/:file_id", s.removeStoreFile)

	g.POST("/vector_stores/:store_id/file_batches", s.createFileBatch)
	g.GET("/vector_stores/:store_id/file_batches/:batch_id", s.getFileBatch)
	g.POST("/vector_stores/:store_id/file_batches/:batch_id/cancel", s.cancelFileBatch)
	g.GET("/vector_stores/:store_id/file_batches/:batch_id/files", s.listBatchFiles)
}

const (
	statusInProgress = "in_progress"
	statusCompleted  = "completed"
	statusCancelled  = "cancelled"
)

func (s *Server) createVectorStore(c echo.Context) error {
	var opts core.VectorStoreCreationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, id := range opts.FileIDs {
		if _, ok := st.files.get(id); !ok {
			return invalidRequest(c, "file_ids", "No file found with id '%s'.", id)
		}
	}
	now := st.now()
	vs := core.VectorStore{
		ID:           newID("vs_"),
		Object:       "vector_store",
		CreatedAt:    now,
		Name:         opts.Name,
		Status:       statusCompleted,
		ExpiresAfter: opts.ExpiresAfter,
		LastActiveAt: &now,
		Metadata:     opts.Metadata,
	}
	st.vectorStores.put(vs.ID, &vs)
	for _, id := range opts.FileIDs {
		st.associate(vs.ID, id, statusCompleted)
	}
	st.refreshStore(vs.ID)
	return c.JSON(http.StatusOK, vs)
}

// associate joins a file to a store, replacing an existing association.
// Callers hold mu.
func (st *state) associate(storeID, fileID, status string) core.VectorStoreFileAssociation {
	var size int64
	if f, ok := st.files.get(fileID); ok {
		size = f.Bytes
	}
	a := core.VectorStoreFileAssociation{
		FileID:        fileID,
		Object:        "vector_store.file",
		UsageBytes:    size,
		CreatedAt:     st.now(),
		VectorStoreID: storeID,
		Status:        status,
	}
	childrenOf(st.storeFiles, storeID).put(fileID, &a)
	return a
}

// refreshStore recomputes usage and file counts of a store. Callers hold mu.
func (st *state) refreshStore(storeID string) {
	vs, ok := st.vectorStores.get(storeID)
	if !ok {
		return
	}
	assocs := childrenOf(st.storeFiles, storeID).values()
	vs.UsageBytes = 0
	for _, a := range assocs {
		vs.UsageBytes += a.UsageBytes
	}
	vs.FileCounts = countFiles(assocs)
	vs.Status = statusCompleted
	if vs.FileCounts.InProgress > 0 {
		vs.Status = statusInProgress
	}
}

func countFiles(assocs []core.VectorStoreFileAssociation) core.VectorStoreFileCounts {
	var counts core.VectorStoreFileCounts
	for _, a := range assocs {
		switch a.Status {
		case statusInProgress:
			counts.InProgress++
		case statusCompleted:
			counts.Completed++
		case "failed":
			counts.Failed++
		case statusCancelled:
			counts.Cancelled++
		}
		counts.Total++
	}
	return counts
}

func (s *Server) listVectorStores(c echo.Context) error {
	s.state.mu.Lock()
	items := s.state.vectorStores.values()
	s.state.mu.Unlock()
	return listJSON(c, items, func(v core.VectorStore) string { return v.ID })
}

// findStore resolves the store of the request path, writing the error
// response itself when it cannot. Callers hold mu.
func (s *Server) findStore(c echo.Context) (*core.VectorStore, bool) {
	id := c.Param("store_id")
	vs, ok := s.state.vectorStores.get(id)
	if !ok {
		_ = notFound(c, "vector store", id)
	}
	return vs, ok
}

func (s *Server) getVectorStore(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, vs)
}

func (s *Server) modifyVectorStore(c echo.Context) error {
	var opts core.VectorStoreModificationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	setIf(&vs.Name, opts.Name)
	if opts.ExpiresAfter != nil {
		vs.ExpiresAfter = opts.ExpiresAfter
	}
	if opts.Metadata != nil {
		vs.Metadata = opts.Metadata
	}
	return c.JSON(http.StatusOK, vs)
}

func (s *Server) deleteVectorStore(c echo.Context) error {
	id := c.Param("store_id")
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.vectorStores.remove(id) {
		return notFound(c, "vector store", id)
	}
	delete(st.storeFiles, id)
	if batches, ok := st.batches[id]; ok {
		for _, b := range batches.values() {
			delete(st.batchFiles, b.BatchID)
		}
		delete(st.batches, id)
	}
	return deleted(c, id, "vector_store.deleted")
}

func (s *Server) addStoreFile(c echo.Context) error {
	var req struct {
		FileID string `json:"file_id"`
	}
	if err := readJSON(c, &req); err != nil {
		return err
	}
	if req.FileID == "" {
		return invalidRequest(c, "file_id", "Missing required parameter: 'file_id'.")
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	if _, ok := st.files.get(req.FileID); !ok {
		return notFound(c, "file", req.FileID)
	}
	a := st.associate(vs.ID, req.FileID, statusCompleted)
	st.refreshStore(vs.ID)
	return c.JSON(http.StatusOK, a)
}

// statusFilter reads the optional filter query parameter.
func statusFilter(c echo.Context) (core.VectorStoreFileStatusFilter, bool) {
	f := core.VectorStoreFileStatusFilter(c.QueryParam("filter"))
	if !f.Valid() {
		_ = invalidRequest(c, "filter", "Invalid value: '%s'. Supported values are: 'in_progress', 'completed', 'failed' and 'cancelled'.", f)
		return f, false
	}
	return f, true
}

func filterAssociations(assocs []core.VectorStoreFileAssociation, f core.VectorStoreFileStatusFilter) []core.VectorStoreFileAssociation {
	if f == core.VectorStoreFileStatusAny {
		return assocs
	}
	out := make([]core.VectorStoreFileAssociation, 0, len(assocs))
	for _, a := range assocs {
		if a.Status == string(f) {
			out = append(out, a)
		}
	}
	return out
}

func associationID(a core.VectorStoreFileAssociation) string { return a.FileID }

func (s *Server) listStoreFiles(c echo.Context) error {
	filter, ok := statusFilter(c)
	if !ok {
		return nil
	}
	s.state.mu.Lock()
	vs, ok := s.findStore(c)
	if !ok {
		s.state.mu.Unlock()
		return nil
	}
	items := childrenOf(s.state.storeFiles, vs.ID).values()
	s.state.mu.Unlock()
	return listJSON(c, filterAssociations(items, filter), associationID)
}

func (s *Server) getStoreFile(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	id := c.Param("file_id")
	a, ok := childrenOf(s.state.storeFiles, vs.ID).get(id)
	if !ok {
		return notFound(c, "vector store file", id)
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) removeStoreFile(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	id := c.Param("file_id")
	if !childrenOf(s.state.storeFiles, vs.ID).remove(id) {
		return notFound(c, "vector store file", id)
	}
	s.state.refreshStore(vs.ID)
	return deleted(c, id, "vector_store.file.deleted")
}

func (s *Server) createFileBatch(c echo.Context) error {
	var req struct {
		FileIDs []string `json:"file_ids"`
	}
	if err := readJSON(c, &req); err != nil {
		return err
	}
	if len(req.FileIDs) == 0 {
		return invalidRequest(c, "file_ids", "Missing required parameter: 'file_ids'.")
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	vs, ok := s.findStore(c)
	if !ok {
		return nil
	}
	for _, id := range req.FileIDs {
		if _, ok := st.files.get(id); !ok {
			return invalidRequest(c, "file_ids", "No file found with id '%s'.", id)
		}
	}

	b := core.VectorStoreBatchFileJob{
		BatchID:       newID("vsfb_"),
		Object:        "vector_store.files_batch",
		CreatedAt:     st.now(),
		VectorStoreID: vs.ID,
		Status:        statusInProgress,
	}
	for _, id := range req.FileIDs {
		st.associate(vs.ID, id, statusInProgress)
	}
	st.batchFiles[b.BatchID] = append([]string(nil), req.FileIDs...)
	childrenOf(st.batches, vs.ID).put(b.BatchID, &b)
	st.refreshBatch(&b)
	st.refreshStore(vs.ID)
	return c.JSON(http.StatusOK, b)
}

// batchAssociations returns the current associations of a batch's files.
// Callers hold mu.
func (st *state) batchAssociations(b *core.VectorStoreBatchFileJob) []core.VectorStoreFileAssociation {
	assocs := childrenOf(st.storeFiles, b.VectorStoreID)
	var out []core.VectorStoreFileAssociation
	for _, id := range st.batchFiles[b.BatchID] {
		if a, ok := assocs.get(id); ok {
			out = append(out, *a)
		}
	}
	return out
}

// refreshBatch recomputes the file counts of a batch. Callers hold mu.
func (st *state) refreshBatch(b *core.VectorStoreBatchFileJob) {
	b.FileCounts = countFiles(st.batchAssociations(b))
}

// settleBatch moves the batch's in-progress files to status, and the batch
// with them. Callers hold mu.
func (st *state) settleBatch(b *core.VectorStoreBatchFileJob, status string) {
	assocs := childrenOf(st.storeFiles, b.VectorStoreID)
	for _, id := range st.batchFiles[b.BatchID] {
		if a, ok := assocs.get(id); ok && a.Status == statusInProgress {
			a.Status = status
		}
	}
	b.Status = status
	st.refreshBatch(b)
	st.refreshStore(b.VectorStoreID)
}

// findBatch resolves the store and batch of the request path, writing the
// error response itself when it cannot. Callers hold mu.
func (s *Server) findBatch(c echo.Context) (*core.VectorStoreBatchFileJob, bool) {
	vs, ok := s.findStore(c)
	if !ok {
		return nil, false
	}
	id := c.Param("batch_id")
	b, ok := childrenOf(s.state.batches, vs.ID).get(id)
	if !ok {
		_ = notFound(c, "vector store file batch", id)
	}
	return b, ok
}

// getFileBatch completes an in-progress batch on the first read after
// creation, the way ingestion finishes between polls.
func (s *Server) getFileBatch(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	b, ok := s.findBatch(c)
	if !ok {
		return nil
	}
	if b.Status == statusInProgress {
		s.state.settleBatch(b, statusCompleted)
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) cancelFileBatch(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	b, ok := s.findBatch(c)
	if !ok {
		return nil
	}
	if b.Status != statusInProgress {
		return invalidRequest(c, "", "Cannot cancel a batch with status '%s'.", b.Status)
	}
	s.state.settleBatch(b, statusCancelled)
	return c.JSON(http.StatusOK, b)
}

func (s *Server) listBatchFiles(c echo.Context) error {
	filter, ok := statusFilter(c)
	if !ok {
		return nil
	}
	s.state.mu.Lock()
	b, ok := s.findBatch(c)
	if !ok {
		s.state.mu.Unlock()
		return nil
	}
	items := s.state.batchAssociations(b)
	s.state.mu.Unlock()
	return listJSON(c, filterAssociations(items, filter), associationID)
}
