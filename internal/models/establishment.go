package models

// Source column names read by the pipeline.
const (
	ColSystemType        = "TipoSistemaSaludGlosa"
	ColRegion            = "RegionGlosa"
	ColCommune           = "ComunaGlosa"
	ColCareLevel         = "NivelAtencionEstabglosa"
	ColEmergency         = "TieneServicioUrgencia"
	ColEstablishmentType = "TipoEstablecimientoGlosa"
	ColStartDate         = "FechaInicioFuncionamientoEstab"
	ColLatitude          = "Latitud"
	ColLongitude         = "Longitud"
	ColName              = "EstablecimientoGlosa"
)

// ExpectedColumns lists every column some view depends on.
var ExpectedColumns = []string{
	ColSystemType,
	ColRegion,
	ColCommune,
	ColCareLevel,
	ColEmergency,
	ColEstablishmentType,
	ColStartDate,
	ColLatitude,
	ColLongitude,
}

// Canonical health system values.
const (
	SystemPublic  = "Público"
	SystemPrivate = "Privado"
)

// SystemTypes is the fixed column order used by every pivot.
var SystemTypes = []string{SystemPublic, SystemPrivate}

// Sentinel and canonical category values.
const (
	CareLevelNotApplicable = "No Aplica"
	CareLevelPending       = "Pendiente"
	EmergencyNotApplicable = "No Aplica"
	EmergencyYes           = "Sí"
	EmergencyNo            = "No"
)

// Establishment is one typed row of the analysis table.
type Establishment struct {
	SystemType        NullString
	Region            NullString
	Commune           NullString
	CareLevel         NullString
	Emergency         NullString
	EstablishmentType NullString
	StartDate         NullString
	Latitude          NullString
	Longitude         NullString
	Name              NullString
}

// EstablishmentFromRow maps a normalized source row to a typed record.
func EstablishmentFromRow(r Row) Establishment {
	return Establishment{
		SystemType:        r.Get(ColSystemType),
		Region:            r.Get(ColRegion),
		Commune:           r.Get(ColCommune),
		CareLevel:         r.Get(ColCareLevel),
		Emergency:         r.Get(ColEmergency),
		EstablishmentType: r.Get(ColEstablishmentType),
		StartDate:         r.Get(ColStartDate),
		Latitude:          r.Get(ColLatitude),
		Longitude:         r.Get(ColLongitude),
		Name:              r.Get(ColName),
	}
}
