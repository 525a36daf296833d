package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
)

func TestAlertMessage_FutureExpiry(t *testing.T) {
	msg := alertMessage(service.ExpiryAlert{
		ProductName:     "Gomitas Clásicas",
		LocationName:    "Bodega Central",
		CurrentQuantity: 40,
		DaysUntilExpiry: 3,
	})

	assert.Equal(t, "Gomitas Clásicas vence en 3 días (40 unidades en Bodega Central)", msg)
}

func TestAlertMessage_AlreadyExpired(t *testing.T) {
	msg := alertMessage(service.ExpiryAlert{
		ProductName:     "Gomitas Ácidas",
		LocationName:    "Tienda Norte",
		CurrentQuantity: 12,
		DaysUntilExpiry: -4,
	})

	assert.Equal(t, "Gomitas Ácidas venció hace 4 días (12 unidades en Tienda Norte)", msg)
}
