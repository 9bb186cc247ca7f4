package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stataid/adapters/excel"
	"stataid/app"
	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/dataset"
	"stataid/domain/stats"
	"stataid/internal/errors"
	"stataid/internal/report"
)

// analyzeRequest is the JSON body shared by every analysis endpoint
type analyzeRequest struct {
	Columns      []string                       `json:"columns"`
	Rows         []map[string]any               `json:"rows"`
	ValidationID string                         `json:"validation_id"`
	GroupColumn  string                         `json:"group_column"`
	GroupingHint string                         `json:"grouping_hint"`
	Intent       string                         `json:"intent"`
	TestResults  map[string][]stats.TestOutcome `json:"test_results"`
	Questions    []string                       `json:"questions"`
}

func (s *Server) handleValidate(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	if req.Dataset == nil {
		s.writeError(c, fmt.Errorf("%w: a dataset is required", core.ErrMalformedInput))
		return
	}
	result, err := s.service.Validate(c.Request.Context(), req.Dataset, req.GroupColumn)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRecommend(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	analysis, err := s.service.Recommend(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"validation": analysis.Validation, "recommendations": analysis.Recommendations})
}

func (s *Server) handleResolve(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	analysis, err := s.service.Resolve(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"validation": analysis.Validation, "answers": analysis.Answers})
}

// handleAnalyze runs the full pass; ?format=markdown or ?format=html renders a report
func (s *Server) handleAnalyze(c *gin.Context) {
	req, ok := s.bindRequest(c)
	if !ok {
		return
	}
	analysis, err := s.service.Analyze(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(analysis, "")))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(analysis, ""))
	default:
		c.JSON(http.StatusOK, analysis)
	}
}

func (s *Server) handleAnswers(c *gin.Context) {
	answers, err := s.service.Answers(c.Request.Context(), core.DatasetFingerprint(c.Param("fingerprint")))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// bindRequest reads either a JSON body or a multipart upload with a "dataset" file
func (s *Server) bindRequest(c *gin.Context) (app.AnalyzeRequest, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return s.bindUpload(c)
	}

	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "code": errors.CodeMalformedInput})
		return app.AnalyzeRequest{}, false
	}

	req := app.AnalyzeRequest{
		ValidationID: core.ID(body.ValidationID),
		GroupColumn:  body.GroupColumn,
		GroupingHint: body.GroupingHint,
		Intent:       body.Intent,
		Questions:    questionIDs(body.Questions),
	}
	if body.Rows != nil || body.Columns != nil {
		rows := make([]dataset.Row, len(body.Rows))
		for i, r := range body.Rows {
			rows[i] = dataset.Row(r)
		}
		if len(body.Columns) > 0 {
			req.Dataset = dataset.New(body.Columns, rows)
		} else {
			req.Dataset = dataset.FromRows(rows)
		}
	}
	if len(body.TestResults) > 0 {
		req.TestResults = make(map[assumptions.QuestionID][]stats.TestOutcome, len(body.TestResults))
		for q, outcomes := range body.TestResults {
			req.TestResults[assumptions.QuestionID(q)] = outcomes
		}
	}
	return req, true
}

func (s *Server) bindUpload(c *gin.Context) (app.AnalyzeRequest, bool) {
	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no dataset file uploaded", "code": errors.CodeMalformedInput})
		return app.AnalyzeRequest{}, false
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file size (%.1f MB) exceeds the 50MB limit", float64(header.Size)/(1<<20))})
		return app.AnalyzeRequest{}, false
	}

	ds, err := s.reader.Read(file, excel.FileType(header.Filename))
	if err != nil {
		s.writeError(c, err)
		return app.AnalyzeRequest{}, false
	}

	var questions []string
	if q := c.PostForm("questions"); q != "" {
		questions = strings.Split(q, ",")
	}
	return app.AnalyzeRequest{
		Dataset:      ds,
		GroupColumn:  c.PostForm("group_column"),
		GroupingHint: c.PostForm("grouping_hint"),
		Intent:       c.PostForm("intent"),
		Questions:    questionIDs(questions),
	}, true
}

func questionIDs(raw []string) []assumptions.QuestionID {
	if len(raw) == 0 {
		return nil
	}
	out := make([]assumptions.QuestionID, 0, len(raw))
	for _, q := range raw {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, assumptions.QuestionID(q))
		}
	}
	return out
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
