package controller

import (
	"errors"
	"net/http"

	"meetup_bot/internal/service"
	"meetup_bot/internal/util"

	"github.com/gin-gonic/gin"
)

type ReferenceController struct {
	Refs *service.ReferenceService
}

func NewReferenceController(refs *service.ReferenceService) *ReferenceController {
	return &ReferenceController{Refs: refs}
}

// GetInterests returns the interest vocabulary shown in dialog keyboards.
func (c *ReferenceController) GetInterests(ctx *gin.Context) {
	names, err := c.Refs.Interests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"interests": names})
}

// GetRegions returns the region vocabulary shown in dialog keyboards.
func (c *ReferenceController) GetRegions(ctx *gin.Context) {
	names, err := c.Refs.Regions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"regions": names})
}

// UploadWorkbook replaces both vocabularies from an uploaded xlsx workbook.
// Accepts the same sheet layouts as the bot's admin upload.
func (c *ReferenceController) UploadWorkbook(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	interests, regions, err := c.Refs.ImportWorkbook(f)
	if err != nil {
		if errors.Is(err, util.ErrEmptyWorkbook) {
			util.Error(ctx, http.StatusUnprocessableEntity, "no interests or regions found in workbook")
			return
		}
		util.BadRequest(ctx, "cannot parse workbook: "+err.Error())
		return
	}

	util.Success(ctx, gin.H{
		"interests": interests,
		"regions":   regions,
	})
}
