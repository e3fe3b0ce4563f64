package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"dishes-be/internal/service"
)

const qrCodeSize = 256

type QRCodeController struct {
	dishService service.DishService
	frontendURL string
	log         logrus.FieldLogger
}

func NewQRCodeController(dishService service.DishService, frontendURL string, log logrus.FieldLogger) *QRCodeController {
	return &QRCodeController{
		dishService: dishService,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// GenerateQRCode handles GET /dishes/:id/qrcode - a PNG linking to the dish page
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	dish, err := qc.dishService.GetDish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, qc.log, err, dishNotFound)
		return
	}

	shareURL := qc.frontendURL + "/dishes/" + url.PathEscape(dish.ID)

	// 256x256 pixels, medium error recovery
	pngData, err := qrcode.Encode(shareURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		respondError(c, qc.log, err, dishNotFound)
		return
	}

	c.Header("Content-Disposition", "inline; filename=dish-qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
