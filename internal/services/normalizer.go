package services

import (
	"strings"
	"time"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/scryfall"
)

// faceSeparator joins the per-face composite fields and summary segments.
const faceSeparator = " // "

// imageMarker introduces a face's image URL inside its summary segment.
const imageMarker = " |IMG:"

// NormalizeCard flattens one raw catalog record into a Card row.
//
// Multi-faced cards get composite name/cost/type/text built from the first
// two faces joined with " // " (oracle text uses a line-broken separator so
// both rules texts stay readable), and a FaceSummary string covering every
// face. Records with more than two faces keep only the first two in the
// composite fields; the summary still lists them all.
//
// setCode, when non-empty, overrides the record's own set code. The per-set
// batch driver passes the set it is importing; the bulk driver passes "".
//
// A record without an identifier is rejected with ErrMissingIdentifier.
func NormalizeCard(raw scryfall.Card, setCode string) (models.Card, error) {
	if raw.ID == "" {
		return models.Card{}, ErrMissingIdentifier
	}

	name := raw.Name
	oracleText := raw.OracleText
	manaCost := raw.ManaCost
	typeLine := raw.TypeLine

	if len(raw.CardFaces) >= 2 {
		front, back := raw.CardFaces[0], raw.CardFaces[1]
		name = front.Name + faceSeparator + back.Name
		oracleText = front.OracleText + " \n//\n " + back.OracleText
		manaCost = front.ManaCost + faceSeparator + back.ManaCost
		typeLine = front.TypeLine + faceSeparator + back.TypeLine
	}

	if setCode == "" {
		setCode = raw.Set
	}

	return models.Card{
		ID:              raw.ID,
		Name:            name,
		ManaCost:        manaCost,
		CMC:             raw.CMC,
		TypeLine:        typeLine,
		OracleText:      oracleText,
		Power:           raw.Power,
		Toughness:       raw.Toughness,
		Colors:          models.StringSlice(raw.Colors),
		ColorIdentity:   models.StringSlice(raw.ColorIdentity),
		Legalities:      models.StringMap(raw.Legalities),
		Games:           models.StringSlice(raw.Games),
		Finishes:        models.StringSlice(raw.Finishes),
		Reserved:        raw.Reserved,
		Foil:            raw.Foil,
		Nonfoil:         raw.Nonfoil,
		Oversized:       raw.Oversized,
		Promo:           raw.Promo,
		Reprint:         raw.Reprint,
		Variation:       raw.Variation,
		SetID:           raw.SetID,
		SetCode:         setCode,
		SetName:         raw.SetName,
		CollectorNumber: raw.CollectorNumber,
		Rarity:          raw.Rarity,
		Artist:          raw.Artist,
		BorderColor:     raw.BorderColor,
		Frame:           raw.Frame,
		FullArt:         raw.FullArt,
		Textless:        raw.Textless,
		Booster:         raw.Booster,
		StorySpotlight:  raw.StorySpotlight,
		EdhrecRank:      raw.EdhrecRank,
		PennyRank:       raw.PennyRank,
		Prices:          models.PriceMap(raw.Prices),
		RelatedURIs:     models.StringMap(raw.RelatedURIs),
		PurchaseURIs:    models.StringMap(raw.PurchaseURIs),
		ImageURIs:       models.StringMap(raw.ImageURIs),
		FaceSummary:     EncodeFaceSummary(raw.CardFaces),
		CreatedAt:       time.Now(),
	}, nil
}

// EncodeFaceSummary renders each face as "<name> (<type_line>)", appending
// " |IMG:<url>" when the face has a normal-resolution image, and joins the
// segments with " // ". Single-faced cards yield the empty string.
func EncodeFaceSummary(faces []scryfall.CardFace) string {
	if len(faces) == 0 {
		return ""
	}
	segments := make([]string, 0, len(faces))
	for _, face := range faces {
		segment := face.Name + " (" + face.TypeLine + ")"
		if img := face.ImageURIs["normal"]; img != "" {
			segment += imageMarker + img
		}
		segments = append(segments, segment)
	}
	return strings.Join(segments, faceSeparator)
}

// ParseFaceSummary is the inverse of EncodeFaceSummary: it recovers each
// face's name, type line and image URL from the encoded string. A segment
// without a parenthesized suffix yields an empty type line.
func ParseFaceSummary(encoded string) []models.FaceInfo {
	if encoded == "" {
		return nil
	}
	segments := strings.Split(encoded, faceSeparator)
	faces := make([]models.FaceInfo, 0, len(segments))
	for _, segment := range segments {
		var face models.FaceInfo

		nameType := segment
		if idx := strings.Index(segment, imageMarker); idx >= 0 {
			nameType = segment[:idx]
			face.ImageURL = segment[idx+len(imageMarker):]
		}

		if idx := strings.Index(nameType, " ("); idx >= 0 && strings.HasSuffix(nameType, ")") {
			face.Name = nameType[:idx]
			face.TypeLine = nameType[idx+2 : len(nameType)-1]
		} else {
			face.Name = nameType
		}
		faces = append(faces, face)
	}
	return faces
}
