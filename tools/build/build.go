package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

type buildTarget struct {
	GOOS       string
	GOARCH     string
	OutputName string
}

const (
	sourcePath   = "./cmd/app"
	outputDir    = "./build"
	buildPackage = "github.com/LaibaFaraz/HealMind/internal/build"
)

func main() {
	targets := []buildTarget{
		{GOOS: "windows", GOARCH: "amd64", OutputName: "healmind_windows_amd64.exe"},
		{GOOS: "linux", GOARCH: "amd64", OutputName: "healmind_linux_amd64"},
		{GOOS: "linux", GOARCH: "arm64", OutputName: "healmind_linux_arm64"},
		{GOOS: "darwin", GOARCH: "arm64", OutputName: "healmind_macos_arm64"},
	}

	ldflags := versionFlags()
	log.Printf("Starting build process (%s)...", ldflags)

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create directory %s: %v", outputDir, err)
	}

	for _, target := range targets {
		log.Printf("Building for %s/%s...", target.GOOS, target.GOARCH)

		outputPath := filepath.Join(outputDir, target.OutputName)
		cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", outputPath, sourcePath)
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("GOOS=%s", target.GOOS),
			fmt.Sprintf("GOARCH=%s", target.GOARCH),
			"CGO_ENABLED=0",
		)

		output, err := cmd.CombinedOutput()
		if err != nil {
			log.Printf("ERROR building for %s/%s.", target.GOOS, target.GOARCH)
			log.Fatalf("Command failed with error: %v\nOutput:\n%s", err, string(output))
		}

		log.Printf("Successfully built: %s", outputPath)
	}

	log.Println("All builds completed successfully!")
}

// versionFlags подставляет версию из HM_VERSION и коммит из git.
func versionFlags() string {
	version := os.Getenv("HM_VERSION")
	if version == "" {
		version = "dev"
	}
	commit := "none"
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	date := time.Now().UTC().Format(time.RFC3339)

	return strings.Join([]string{
		"-s -w",
		fmt.Sprintf("-X %s.Version=%s", buildPackage, version),
		fmt.Sprintf("-X %s.Commit=%s", buildPackage, commit),
		fmt.Sprintf("-X %s.Date=%s", buildPackage, date),
	}, " ")
}
