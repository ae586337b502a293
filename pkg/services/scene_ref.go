package services

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// sceneIndex resolves the scene references models put in their output back to
// stored scene IDs. Prompts ask for the id, but models sometimes answer with
// the scene number instead, so both are accepted.
type sceneIndex struct {
	byID     map[string]uuid.UUID
	byNumber map[int]uuid.UUID
}

func indexScenes(scenes []*models.Scene) *sceneIndex {
	idx := &sceneIndex{
		byID:     make(map[string]uuid.UUID, len(scenes)),
		byNumber: make(map[int]uuid.UUID, len(scenes)),
	}
	for _, scene := range scenes {
		idx.byID[scene.ID.String()] = scene.ID
		idx.byNumber[scene.SceneNumber] = scene.ID
	}
	return idx
}

// resolve maps a model-produced scene reference to a stored scene ID.
func (idx *sceneIndex) resolve(ref string) (uuid.UUID, bool) {
	ref = strings.TrimSpace(ref)
	if id, ok := idx.byID[ref]; ok {
		return id, true
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "scene_")); err == nil {
		if id, ok := idx.byNumber[n]; ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
