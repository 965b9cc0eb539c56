package api

import "github.com/samcharles93/dense/pkg/dense"

type DatasetResponse struct {
	Object      string `json:"object"`
	Name        string `json:"name"`
	Layout      string `json:"layout"`
	Encoding    string `json:"encoding"`
	ExampleSize int    `json:"example_size"`
	RecordSize  int    `json:"record_size,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Rows        int64  `json:"rows,omitempty"`
	Error       string `json:"error,omitempty"`
}

type DatasetListResponse struct {
	Object string            `json:"object"`
	Data   []DatasetResponse `json:"data"`
}

type RowsResponse struct {
	Object  string         `json:"object"`
	Dataset string         `json:"dataset"`
	Total   int64          `json:"total"`
	Data    []dense.Record `json:"data"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
