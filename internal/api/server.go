// Package api serves dense datasets over a read-only HTTP API.
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dense/internal/logger"
)

const (
	defaultRowLimit = 16
	maxRowLimit     = 1024
)

type Server struct {
	store *DatasetStore
	log   logger.Logger
}

func NewServer(store *DatasetStore, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{store: store, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/datasets", s.handleListDatasets)
	e.GET("/v1/datasets/:name", s.handleGetDataset)
	e.GET("/v1/datasets/:name/rows", s.handleListRows)
	e.GET("/v1/datasets/:name/rows/:index", s.handleGetRow)
}

func (s *Server) handleListDatasets(c *echo.Context) error {
	sets, err := s.store.List()
	if err != nil {
		s.log.Error("list datasets", "error", err)
		return writeErr(c, err)
	}
	out := DatasetListResponse{Object: "list", Data: make([]DatasetResponse, 0, len(sets))}
	for _, ds := range sets {
		out.Data = append(out.Data, s.describe(ds))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetDataset(c *echo.Context) error {
	ds, err := s.store.Get(c.Param("name"))
	if err != nil {
		return writeErr(c, err)
	}
	if _, err := s.store.Info(ds.Name); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, s.describe(ds))
}

func (s *Server) handleListRows(c *echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	limit, err := queryInt(c, "limit", defaultRowLimit)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if limit < 1 || limit > maxRowLimit {
		return writeBadRequest(c, "limit must be between 1 and "+strconv.Itoa(maxRowLimit))
	}

	name := c.Param("name")
	rows, info, err := s.store.Rows(name, offset, limit)
	if err != nil {
		s.log.Debug("read rows", "dataset", name, "offset", offset, "error", err)
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, RowsResponse{Object: "list", Dataset: name, Total: info.Rows, Data: rows})
}

func (s *Server) handleGetRow(c *echo.Context) error {
	idx, err := strconv.ParseInt(c.Param("index"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "index must be an integer")
	}
	name := c.Param("name")
	rows, _, err := s.store.Rows(name, idx, 1)
	if err != nil {
		s.log.Debug("read row", "dataset", name, "index", idx, "error", err)
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, rows[0])
}

func (s *Server) describe(ds Dataset) DatasetResponse {
	resp := DatasetResponse{
		Object:      "dataset",
		Name:        ds.Name,
		Layout:      ds.Layout.String(),
		Encoding:    ds.Layout.Encoding.String(),
		ExampleSize: ds.Layout.ExampleSize,
	}
	info, err := s.store.Info(ds.Name)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.RecordSize = info.RecordSize
	resp.Size = info.Size
	resp.Rows = info.Rows
	return resp
}

func queryInt(c *echo.Context, name string, def int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &strconv.NumError{Func: "query " + name, Num: raw, Err: strconv.ErrSyntax}
	}
	return v, nil
}
