package api

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"

	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// SetRouter returns the API router. Every accepted upload is tagged in the background with given tag function.
func SetRouter(tag TagFunc) *gin.Engine {
	r := gin.Default()
	tagJobs := newJobs(tag)

	//serve html pages to client
	if static := viper.GetString("frontend.static-files-path"); static != "" {
		r.Static("/client", static)
		r.StaticFile("/", static+"home_page/dist/index.html")
	}

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/ReadyVideosNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(viper.GetString("directory.ready")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/UserUploadsVideosNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(viper.GetString("directory.source")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/Play", func(ctx *gin.Context) {
		videoName := ctx.Query("name")
		if videoName == "" || videoName != path.Base(videoName) {
			ctx.Status(http.StatusNotAcceptable) //missing or invalid url parameter
			return
		}

		analyzed := ctx.Query("analyzed")
		if analyzed != "true" && analyzed != "false" {
			ctx.Status(http.StatusNotAcceptable) //missing url parameter
			return
		}

		var videoPath string
		if analyzed == "true" {
			videoPath = path.Join(viper.GetString("directory.ready"), videoName+"."+viper.GetString("video.prod_format"))
		} else {
			videoPath = path.Join(viper.GetString("directory.source"), videoName+"."+viper.GetString("video.prod_format"))
		}

		if _, err := os.Stat(videoPath); err != nil {
			if os.IsNotExist(err) {
				ctx.Status(http.StatusNotFound)
			} else {
				ctx.Status(http.StatusInternalServerError)
			}
			return
		}

		ctx.Header("Content-Type", "video/"+viper.GetString("video.prod_format"))
		http.ServeFile(ctx.Writer, ctx.Request, videoPath)
	})

	apiRoutes.POST("/Upload", func(ctx *gin.Context) {
		file, fHeader, err := ctx.Request.FormFile("video")
		if err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		defer file.Close()

		fileName := path.Base(fHeader.Filename)
		if existNames, err := utils.ListDir(viper.GetString("directory.source")); err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		} else if utils.InSlice(fileName, existNames) {
			ctx.Status(http.StatusNotAcceptable)
			return
		}

		slog.Info("received upload", "name", fileName, "bytes", fHeader.Size)

		srcFilePath := path.Join(viper.GetString("directory.source"), fileName)
		dst, err := os.OpenFile(srcFilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0444)
		if err != nil {
			slog.Error("could not create upload file", "path", srcFilePath, "error", err)
			ctx.Status(http.StatusInternalServerError)
			return
		}
		_, err = io.Copy(dst, file)
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			slog.Error("could not write upload file", "path", srcFilePath, "error", err)
			os.Remove(srcFilePath)
			ctx.Status(http.StatusInternalServerError)
			return
		}

		ctx.JSON(http.StatusAccepted, tagJobs.start(fileName))
	})

	apiRoutes.GET("/Jobs/:id", func(ctx *gin.Context) {
		job, ok := tagJobs.get(ctx.Param("id"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.JSON(http.StatusOK, job)
	})

	return r
}
