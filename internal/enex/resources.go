package enex

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"notemill/internal/logging"
)

// mimeExtensions maps known export MIME types to file extensions. Unknown
// types fall back to a generic binary extension.
var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/bmp":       ".bmp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"text/html":       ".html",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/zip": ".zip",
	"audio/mpeg":      ".mp3",
	"audio/wav":       ".wav",
	"video/mp4":       ".mp4",
	"video/avi":       ".avi",
}

const genericExtension = ".bin"

// ExtensionForMime returns the file extension for a MIME type, or ".bin" for
// unknown types.
func ExtensionForMime(mimeType string) string {
	if ext, ok := mimeExtensions[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return ext
	}
	return genericExtension
}

// decodeResources extracts attachments from a note. Extraction is best-effort
// per resource: payloads that fail base64 decoding are dropped and numbering
// continues from the next successfully decoded resource.
func (p *Parser) decodeResources(raws []xmlResource, noteTitle string) []Resource {
	var resources []Resource
	for _, raw := range raws {
		payload := strings.TrimSpace(raw.Data.Value)
		if payload == "" {
			continue
		}
		data, err := decodeBase64(payload)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("dropping undecodable resource",
					logging.String("note", noteTitle),
					logging.String("mime", raw.Mime),
					logging.Error(err),
				)
			}
			continue
		}

		mimeType := strings.TrimSpace(raw.Mime)
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		filename := strings.TrimSpace(raw.Attr.FileName)
		if filename == "" {
			filename = strings.TrimSpace(raw.Attr.AltFileName)
		}
		if filename == "" {
			filename = fmt.Sprintf("attachment_%d%s", len(resources), ExtensionForMime(mimeType))
		}

		resources = append(resources, Resource{
			Data:        data,
			MimeType:    mimeType,
			Filename:    filename,
			Width:       parseDimension(raw.Attr.Width),
			Height:      parseDimension(raw.Attr.Height),
			ContentHash: strings.TrimSpace(raw.Data.Hash),
		})
	}
	return resources
}

// decodeBase64 tolerates the line-wrapped payloads export tools emit.
func decodeBase64(payload string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, payload)
	return base64.StdEncoding.DecodeString(compact)
}

func parseDimension(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// bodyHash computes the hex MD5 of a resource payload, the digest the export
// format uses for en-media references.
func bodyHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
