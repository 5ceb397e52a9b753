package observations

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"ulascansenturk/weather-loader/internal/etlerr"
	"ulascansenturk/weather-loader/internal/records"
)

// Observation is one row of the destination table. Provider fields are nullable; flattened
// fields without a column of their own are kept in ExtraFields.
type Observation struct {
	ID         uint64    `json:"id" mapstructure:"-" gorm:"column:id;primaryKey"`
	RecordHash string    `json:"record_hash" mapstructure:"-" gorm:"column:record_hash"`
	RunID      uuid.UUID `json:"run_id" mapstructure:"-" gorm:"column:run_id;type:uuid"`
	LoadedAt   time.Time `json:"loaded_at" mapstructure:"-" gorm:"column:loaded_at"`

	RequestType     *string `json:"request_type" mapstructure:"request_type" gorm:"column:request_type"`
	RequestQuery    *string `json:"request_query" mapstructure:"request_query" gorm:"column:request_query"`
	RequestLanguage *string `json:"request_language" mapstructure:"request_language" gorm:"column:request_language"`
	RequestUnit     *string `json:"request_unit" mapstructure:"request_unit" gorm:"column:request_unit"`

	LocationName           *string `json:"location_name" mapstructure:"location_name" gorm:"column:location_name"`
	LocationCountry        *string `json:"location_country" mapstructure:"location_country" gorm:"column:location_country"`
	LocationRegion         *string `json:"location_region" mapstructure:"location_region" gorm:"column:location_region"`
	LocationLat            *string `json:"location_lat" mapstructure:"location_lat" gorm:"column:location_lat"`
	LocationLon            *string `json:"location_lon" mapstructure:"location_lon" gorm:"column:location_lon"`
	LocationTimezoneID     *string `json:"location_timezone_id" mapstructure:"location_timezone_id" gorm:"column:location_timezone_id"`
	LocationLocaltime      *string `json:"location_localtime" mapstructure:"location_localtime" gorm:"column:location_localtime"`
	LocationLocaltimeEpoch *int64  `json:"location_localtime_epoch" mapstructure:"location_localtime_epoch" gorm:"column:location_localtime_epoch"`
	LocationUTCOffset      *string `json:"location_utc_offset" mapstructure:"location_utc_offset" gorm:"column:location_utc_offset"`

	CurrentObservationTime     *string        `json:"current_observation_time" mapstructure:"current_observation_time" gorm:"column:current_observation_time"`
	CurrentTemperature         *float64       `json:"current_temperature" mapstructure:"current_temperature" gorm:"column:current_temperature"`
	CurrentWeatherCode         *int32         `json:"current_weather_code" mapstructure:"current_weather_code" gorm:"column:current_weather_code"`
	CurrentWeatherIcons        pq.StringArray `json:"current_weather_icons" mapstructure:"current_weather_icons" gorm:"column:current_weather_icons;type:text[]"`
	CurrentWeatherDescriptions pq.StringArray `json:"current_weather_descriptions" mapstructure:"current_weather_descriptions" gorm:"column:current_weather_descriptions;type:text[]"`
	CurrentWindSpeed           *float64       `json:"current_wind_speed" mapstructure:"current_wind_speed" gorm:"column:current_wind_speed"`
	CurrentWindDegree          *int32         `json:"current_wind_degree" mapstructure:"current_wind_degree" gorm:"column:current_wind_degree"`
	CurrentWindDir             *string        `json:"current_wind_dir" mapstructure:"current_wind_dir" gorm:"column:current_wind_dir"`
	CurrentPressure            *float64       `json:"current_pressure" mapstructure:"current_pressure" gorm:"column:current_pressure"`
	CurrentPrecip              *float64       `json:"current_precip" mapstructure:"current_precip" gorm:"column:current_precip"`
	CurrentHumidity            *float64       `json:"current_humidity" mapstructure:"current_humidity" gorm:"column:current_humidity"`
	CurrentCloudcover          *float64       `json:"current_cloudcover" mapstructure:"current_cloudcover" gorm:"column:current_cloudcover"`
	CurrentFeelslike           *float64       `json:"current_feelslike" mapstructure:"current_feelslike" gorm:"column:current_feelslike"`
	CurrentUVIndex             *float64       `json:"current_uv_index" mapstructure:"current_uv_index" gorm:"column:current_uv_index"`
	CurrentVisibility          *float64       `json:"current_visibility" mapstructure:"current_visibility" gorm:"column:current_visibility"`
	CurrentIsDay               *string        `json:"current_is_day" mapstructure:"current_is_day" gorm:"column:current_is_day"`

	ExtraFields string         `json:"extra_fields" mapstructure:"-" gorm:"column:extra_fields;type:jsonb"`
	Extra       map[string]any `json:"-" mapstructure:",remain" gorm:"-"`
}

type column struct {
	name       string
	definition string
}

// columns is the table layout; Observation's gorm tags must match it.
var columns = []column{
	{"id", "BIGSERIAL PRIMARY KEY"},
	{"record_hash", "CHAR(64) NOT NULL"},
	{"run_id", "UUID NOT NULL"},
	{"loaded_at", "TIMESTAMPTZ NOT NULL"},
	{"request_type", "TEXT"},
	{"request_query", "TEXT"},
	{"request_language", "TEXT"},
	{"request_unit", "TEXT"},
	{"location_name", "TEXT"},
	{"location_country", "TEXT"},
	{"location_region", "TEXT"},
	{"location_lat", "TEXT"},
	{"location_lon", "TEXT"},
	{"location_timezone_id", "TEXT"},
	{"location_localtime", "TEXT"},
	{"location_localtime_epoch", "BIGINT"},
	{"location_utc_offset", "TEXT"},
	{"current_observation_time", "TEXT"},
	{"current_temperature", "DOUBLE PRECISION"},
	{"current_weather_code", "INTEGER"},
	{"current_weather_icons", "TEXT[]"},
	{"current_weather_descriptions", "TEXT[]"},
	{"current_wind_speed", "DOUBLE PRECISION"},
	{"current_wind_degree", "INTEGER"},
	{"current_wind_dir", "TEXT"},
	{"current_pressure", "DOUBLE PRECISION"},
	{"current_precip", "DOUBLE PRECISION"},
	{"current_humidity", "DOUBLE PRECISION"},
	{"current_cloudcover", "DOUBLE PRECISION"},
	{"current_feelslike", "DOUBLE PRECISION"},
	{"current_uv_index", "DOUBLE PRECISION"},
	{"current_visibility", "DOUBLE PRECISION"},
	{"current_is_day", "TEXT"},
	{"extra_fields", "JSONB NOT NULL DEFAULT '{}'"},
}

// IsColumn reports whether name is a column of the destination table.
func IsColumn(name string) bool {
	for _, c := range columns {
		if c.name == name {
			return true
		}
	}
	return false
}

// IsDedupColumn reports whether name can be part of a dedup key. id is the tie-break and
// never part of the key.
func IsDedupColumn(name string) bool {
	return name != "id" && IsColumn(name)
}

func columnDefinitions() string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, pgx.Identifier{c.name}.Sanitize()+" "+c.definition)
	}
	return strings.Join(defs, ",\n\t")
}

// rejectNonTextInTextColumn keeps weak decoding from storing booleans and bare numbers as
// "1"/"0" style text. json.Number is text already and passes through.
func rejectNonTextInTextColumn(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == nil || to.Kind() != reflect.String {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("%v (%s) does not fit a text column", data, from)
	}
	return data, nil
}

// NewObservation maps a record onto the typed columns. A field whose value does not fit its
// column type is rejected; fields without a column go to ExtraFields.
func NewObservation(record records.WeatherRecord, runID uuid.UUID, loadedAt time.Time) (Observation, error) {
	obs := Observation{
		RecordHash: record.Hash,
		RunID:      runID,
		LoadedAt:   loadedAt,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &obs,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       rejectNonTextInTextColumn,
	})
	if err != nil {
		return Observation{}, fmt.Errorf("%w: building decoder: %w", etlerr.ErrNormalization, err)
	}

	if err := decoder.Decode(record.Fields); err != nil {
		return Observation{}, fmt.Errorf("%w: record %s does not fit the table: %w", etlerr.ErrNormalization, record.Hash, err)
	}

	obs.ExtraFields = "{}"
	if len(obs.Extra) > 0 {
		extra, err := json.Marshal(obs.Extra)
		if err != nil {
			return Observation{}, fmt.Errorf("%w: encoding extra fields: %w", etlerr.ErrNormalization, err)
		}
		obs.ExtraFields = string(extra)
	}

	return obs, nil
}
