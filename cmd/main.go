package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/chenBenjamin97/football-analyzer/pkg/api"
	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/chenBenjamin97/football-analyzer/pkg/video"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	pflag.String("config", "", "path of the configuration file (default ./config.yaml)")
	pflag.String("video", "", "tag this video from 'directory.source' and exit instead of serving HTTP")
	pflag.Bool("read-cache", false, "load tracks from 'directory.stubs' when a cache file exists")
	pflag.Parse()
	if err := viper.BindPFlag("cache.read", pflag.Lookup("read-cache")); err != nil {
		fatal("could not bind flags", err)
	}

	if cfg, _ := pflag.CommandLine.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.SetDefault("video.codec", "XVID")
	viper.SetDefault("detector.python", "python3")
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("log.level", "info")
	if err := viper.ReadInConfig(); err != nil {
		fatal("could not read config file", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		fatal("invalid 'log.level'", err)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	//create missing directories from config file
	for key, dir := range viper.GetStringMapString("directory") {
		if err := utils.EnsureDir(dir); err != nil {
			slog.Error("could not create directory", "key", key, "error", err)
		}
	}

	if viper.GetString("video.prod_format") == "" || viper.GetString("detector.script") == "" || viper.GetString("directory.source") == "" {
		fatal("missing critical configurations", nil)
	}

	tag := func(srcVideoName string) error {
		return video.Tag(srcVideoName, video.TagOptions{ReadFromCache: viper.GetBool("cache.read")})
	}

	if srcVideoName, _ := pflag.CommandLine.GetString("video"); srcVideoName != "" {
		if err := tag(srcVideoName); err != nil {
			fatal("could not tag video", err)
		}
		return
	}

	r := api.SetRouter(tag)
	if err := r.Run(":" + viper.GetString("http.port")); err != nil {
		fatal("server stopped", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
