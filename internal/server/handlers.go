package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
)

type handlers struct {
	svc service.Service
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// upload accepts multipart form fields file, html_files, doc_id, metadata
// and change_description.
func (h *handlers) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(&Error{Code: http.StatusRequestEntityTooLarge, Message: "Upload too large", Err: err})
			return
		}
		c.Error(BadRequest("No file part", err))
		return
	}
	if fh.Filename == "" {
		c.Error(BadRequest("No selected file", nil))
		return
	}

	md := metadata.Metadata{}
	if raw := c.PostForm("metadata"); raw != "" {
		if md, err = metadata.Parse([]byte(raw)); err != nil {
			c.Error(BadRequest("Invalid JSON format for metadata", err))
			return
		}
	}

	in := service.UploadInput{
		DocID:             c.PostForm("doc_id"),
		Metadata:          md,
		ChangeDescription: c.PostForm("change_description"),
	}

	var open []multipart.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()
	openFile := func(fh *multipart.FileHeader) (service.File, error) {
		f, err := fh.Open()
		if err != nil {
			return service.File{}, err
		}
		open = append(open, f)
		return service.File{Name: fh.Filename, Body: f}, nil
	}

	if in.File, err = openFile(fh); err != nil {
		c.Error(err)
		return
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, hf := range form.File["html_files"] {
			f, err := openFile(hf)
			if err != nil {
				c.Error(err)
				return
			}
			in.HTML = append(in.HTML, f)
		}
	}

	res, err := h.svc.Upload(c.Request.Context(), in)
	log.Event("http:upload", "upload").
		Author(c.ClientIP()).
		DocID(in.DocID).
		ResultVersion(res.Version).
		Detail("html_files", len(in.HTML)).
		Write(err)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully.",
		"doc_id":  res.DocID,
		"version": res.Version,
	})
}

func (h *handlers) listDocuments(c *gin.Context) {
	docs, err := h.svc.ListDocuments(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handlers) getDocument(c *gin.Context) {
	doc, err := h.svc.Document(c.Request.Context(), c.Param("doc_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) search(c *gin.Context) {
	docs, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handlers) deleteVersion(c *gin.Context) {
	docID := c.Param("doc_id")
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		c.Error(BadRequest("Invalid version number.", err))
		return
	}

	r := h.svc.DeleteVersion(c.Request.Context(), docID, version)
	writeResult(c, r, log.Event("http:delete_version", "delete").
		Author(c.ClientIP()).
		DocID(docID).
		Version(version))
}

type voteRequest struct {
	DocID    string `json:"doc_id" binding:"required"`
	Version  int    `json:"version" binding:"required"`
	VoteType string `json:"vote_type" binding:"required"`
}

func (h *handlers) vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(BadRequest("Invalid vote request.", err))
		return
	}

	r := h.svc.CastVote(c.Request.Context(), req.DocID, req.Version, req.VoteType, c.ClientIP())
	writeResult(c, r, log.Event("http:vote", "vote").
		Author(c.ClientIP()).
		DocID(req.DocID).
		Version(req.Version).
		Detail("vote_type", req.VoteType))
}

// writeResult responds 200 {"success": true, "message"} or 400 {"error"}.
func writeResult(c *gin.Context, r service.Result, entry *log.Builder) {
	if !r.OK {
		entry.Write(errors.New(r.Message))
		c.Error(BadRequest(r.Message, nil))
		return
	}
	entry.Write(nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": r.Message})
}

func (h *handlers) voteResults(c *gin.Context) {
	votes, err := h.svc.AllVotes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

func (h *handlers) voteCounts(c *gin.Context) {
	counts, err := h.svc.VoteCounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *handlers) serveUpload(c *gin.Context) {
	name := c.Param("filename")
	f, err := h.svc.OpenBlob(name)
	if err != nil {
		c.Error(NotFound("File not found.", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		c.Error(NotFound("File not found.", err))
		return
	}
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
}
