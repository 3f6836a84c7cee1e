package handlers

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

// HandleStaticDocument serves a precomputed JSON document from publicDir.
// The file is read on every request so a redeploy is visible immediately.
// GET /predict.json, GET /eda.json
func HandleStaticDocument(publicDir, name string) fiber.Handler {
	path := filepath.Join(publicDir, name)
	return func(c *fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": name + " has not been generated"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !gjson.ValidBytes(data) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": name + " is not valid JSON"})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}
}
