package controller

import (
	"io"
	"strconv"

	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxAudioBytes = 20 << 20

type SpeechController struct {
	SpeechService  *service.SpeechService
	StorageService *service.StorageService
}

func NewSpeechController(speechService *service.SpeechService, storageService *service.StorageService) *SpeechController {
	return &SpeechController{SpeechService: speechService, StorageService: storageService}
}

// Transcribe godoc
// @Summary Transcribe an audio recording
// @Tags speech
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio file"
// @Success 200 {object} util.Response{data=service.TranscriptionResult}
// @Failure 400 {object} util.Response
// @Router /api/speech/transcribe [post]
func (c *SpeechController) Transcribe(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, util.ErrMissingAudio.Error())
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result := c.SpeechService.Transcribe(ctx.Request.Context(), audio, header.Filename)
	util.Success(ctx, result)
}

type SynthesizeRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// Synthesize godoc
// @Summary Read text aloud in the configured child voice
// @Tags speech
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SynthesizeRequest true "Text to speak"
// @Success 200 {object} util.Response{data=service.SynthesisResult}
// @Router /api/speech/synthesize [post]
func (c *SpeechController) Synthesize(ctx *gin.Context) {
	var req SynthesizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := c.SpeechService.Synthesize(ctx.Request.Context(), req.Text)
	util.Success(ctx, result)
}

// UploadAudio godoc
// @Summary Store a learner's attempt recording
// @Description Persists the audio and probes its duration; the returned URL goes into the attempt submission.
// @Tags speech
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio file"
// @Param userId formData int true "Learner ID"
// @Success 201 {object} util.Response{data=service.AudioUploadResult}
// @Failure 400 {object} util.Response
// @Router /api/speech/audio [post]
func (c *SpeechController) UploadAudio(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.PostForm("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	file, header, err := ctx.Request.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, util.ErrMissingAudio.Error())
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	result, err := c.StorageService.UploadAttemptAudio(ctx.Request.Context(), uint(userID),
		io.LimitReader(file, maxAudioBytes), header.Filename, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
