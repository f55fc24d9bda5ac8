package domain

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeviceCategory representa a categoria de dispositivo de uma sessão
type DeviceCategory string

const (
	DeviceDesktop DeviceCategory = "desktop"
	DeviceMobile  DeviceCategory = "mobile"
	DeviceTablet  DeviceCategory = "tablet"

	// DeviceTotal agrupa todas as categorias de um mês; nunca vem dos arquivos de entrada
	DeviceTotal DeviceCategory = "total"
)

var deviceRank = map[DeviceCategory]int{
	DeviceDesktop: 0,
	DeviceMobile:  1,
	DeviceTablet:  2,
	DeviceTotal:   3,
}

// ParseDeviceCategory normaliza a categoria vinda do extrato (ex: "Mobile", " DESKTOP ")
func ParseDeviceCategory(value string) (DeviceCategory, error) {
	device := DeviceCategory(strings.ToLower(strings.TrimSpace(value)))

	switch device {
	case DeviceDesktop, DeviceMobile, DeviceTablet:
		return device, nil
	case "":
		return "", errors.New("categoria de dispositivo vazia")
	}

	return "", errors.Errorf("categoria de dispositivo desconhecida: %q", value)
}

// Rank define a ordem de exibição: desktop, mobile, tablet e total
func (d DeviceCategory) Rank() int {
	if rank, ok := deviceRank[d]; ok {
		return rank
	}
	return len(deviceRank)
}

// Title retorna o nome de exibição (ex: Desktop)
func (d DeviceCategory) Title() string {
	return cases.Title(language.English).String(string(d))
}

func (d DeviceCategory) String() string {
	return string(d)
}
