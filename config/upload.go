package config

// UploadConfig - правила приёма файла для одного контекста загрузки.
type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
}

const UploadEquipmentImport = "equipment_import"

var UploadContexts = map[string]UploadConfig{
	// xlsx - zip-архив, http.DetectContentType видит его как application/zip
	UploadEquipmentImport: {
		AllowedMimeTypes:  []string{"application/zip"},
		AllowedExtensions: []string{".xlsx"},
		MaxSizeMB:         10,
	},
}
