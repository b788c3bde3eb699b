package models

// Locality is one row of the IPMA distrits-islands reference table.
// GlobalIDLocal is the key every forecast lookup consumes. Latitude and
// longitude arrive as decimal-degree strings and are kept as-is.
type Locality struct {
	GlobalIDLocal int    `json:"globalIdLocal"`
	Local         string `json:"local"`
	IDRegiao      int    `json:"idRegiao"`
	IDDistrito    int    `json:"idDistrito"`
	IDConcelho    int    `json:"idConcelho"`
	IDAreaAviso   string `json:"idAreaAviso"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
}

// WeatherType is one raw row of weather-type-classe.json.
type WeatherType struct {
	IDWeatherType     int    `json:"idWeatherType"`
	DescWeatherTypePT string `json:"descWeatherTypePT"`
	DescWeatherTypeEN string `json:"descWeatherTypeEN"`
}

// WeatherTypeLabel holds the localized descriptions for a weather-type code.
type WeatherTypeLabel struct {
	PT string `json:"pt"`
	EN string `json:"en"`
}

// DailyForecast is the multi-day forecast document for one locality.
type DailyForecast struct {
	Owner         string        `json:"owner"`
	Country       string        `json:"country"`
	GlobalIDLocal int           `json:"globalIdLocal"`
	DataUpdate    string        `json:"dataUpdate"`
	Data          []DayForecast `json:"data"`
}

// DayForecast is one day of a DailyForecast. Numeric fields use FlexFloat
// because IPMA serves them inconsistently as numbers or strings.
type DayForecast struct {
	ForecastDate   string    `json:"forecastDate"`
	TMin           FlexFloat `json:"tMin"`
	TMax           FlexFloat `json:"tMax"`
	PrecipitaProb  FlexFloat `json:"precipitaProb"`
	PredWindDir    string    `json:"predWindDir"`
	IDWeatherType  int       `json:"idWeatherType"`
	ClassWindSpeed *int      `json:"classWindSpeed"`
	ClassPrecInt   *int      `json:"classPrecInt,omitempty"`
	Latitude       FlexFloat `json:"latitude"`
	Longitude      FlexFloat `json:"longitude"`
}

// WeatherLabel is the enriched weather-type block of a DayDetail. PT and EN
// are empty strings when the code is unknown to the label map.
type WeatherLabel struct {
	ID int    `json:"id"`
	PT string `json:"pt"`
	EN string `json:"en"`
}

// Wind groups wind speed class and predominant direction.
type Wind struct {
	Class *int    `json:"class"`
	Dir   *string `json:"dir"`
}

// DayDetail is the normalized single-day forecast returned by /v1/forecast/day.
type DayDetail struct {
	GlobalIDLocal int          `json:"globalIdLocal"`
	ForecastDate  string       `json:"forecastDate"`
	TMin          FlexFloat    `json:"tMin"`
	TMax          FlexFloat    `json:"tMax"`
	PrecipitaProb FlexFloat    `json:"precipitaProb"`
	PredWindDir   string       `json:"predWindDir"`
	Weather       WeatherLabel `json:"weather"`
	Wind          Wind         `json:"wind"`
}
