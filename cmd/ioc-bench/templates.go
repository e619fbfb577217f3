package main

import (
	"embed"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

type iniTemplateData struct {
	Namespace       string
	DefaultLifetime string
	WeakSingletons  bool
}

// GenerateConfig writes a starter ioc.ini into folder.
func GenerateConfig(folder string, data iniTemplateData) error {
	return generateFile(folder, "templates/ioc.ini.tmpl", "ioc.ini", data)
}

func generateFile(folder, templatePath, outputName string, data any) error {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(folder, outputName))
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, data)
}
