// handlers/videos.go - Highlight video upload and playback counters
package handlers

import (
	"strconv"
	"strings"

	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/services"
	"scoutlink/utils"
	"scoutlink/validation"

	"github.com/gofiber/fiber/v2"
)

// ListVideos is the public feed of recent uploads.
func ListVideos(c *fiber.Ctx) error {
	videos, err := videoService.Feed(c.UserContext(), utils.QueryInt(c, "limit", 20), utils.QueryInt(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(videos)
}

// GetVideo counts a view and returns the updated video.
func GetVideo(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	video, err := videoService.View(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Video not found")
	}
	return c.JSON(video)
}

func GetUserVideos(c *fiber.Ctx) error {
	userID, err := utils.ParamID(c, "userId")
	if err != nil {
		return err
	}
	videos, err := videoService.ByUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(videos)
}

// UploadVideo accepts multipart/form-data with a videoFile part.
func UploadVideo(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("videoFile")
	if err != nil {
		return fail(c, validation.NewFieldError("videoFile", "videoFile is required"))
	}

	meta := services.VideoUpload{
		Title:       c.FormValue("title"),
		Description: utils.OptionalString(c.FormValue("description")),
		Thumbnail:   utils.OptionalString(c.FormValue("thumbnail")),
	}
	if raw := strings.TrimSpace(c.FormValue("duration")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return fail(c, validation.NewFieldError("duration", "duration must be a whole number of seconds"))
		}
		meta.Duration = &d
	}

	video, err := videoService.Upload(c.UserContext(), p, meta, file)
	if err != nil {
		return fail(c, err)
	}
	metrics.VideoUploads.Inc()
	return c.Status(fiber.StatusCreated).JSON(video)
}

func LikeVideo(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	video, err := videoService.Like(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Video not found")
	}
	return c.JSON(video)
}
