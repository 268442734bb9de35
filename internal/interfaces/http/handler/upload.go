package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/logistics"
)

// uploadFormField is the multipart field holding the file
const uploadFormField = "file"

// uploadInput opens the multipart file. The caller must invoke the returned
// close func once the upload finished.
func (h *BaseHandler) uploadInput(c *gin.Context) (logistics.UploadInput, func(), bool) {
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		h.BadRequest(c, "Multipart field \""+uploadFormField+"\" is required")
		return logistics.UploadInput{}, nil, false
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file cannot be read")
		return logistics.UploadInput{}, nil, false
	}
	return logistics.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, true
}

func toDownloadResponse(d *logistics.Download) DownloadResponse {
	return DownloadResponse{URL: d.URL, FileName: d.FileName, ExpiresAt: d.ExpiresAt}
}

func (r TransitionRequest) toInput() logistics.TransitionInput {
	return logistics.TransitionInput{
		StatusID:     uuid.MustParse(r.StatusID),
		Comment:      r.Comment,
		ActualWeight: r.ActualWeight,
		ActualVolume: r.ActualVolume,
	}
}
