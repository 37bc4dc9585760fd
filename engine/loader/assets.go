package loader

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Flat colours used when the sun or starfield image is missing.
const (
	DefaultSunColor       = "#ffcc33"
	DefaultStarfieldColor = "#05050a"
)

// StarfieldOpacity is the opacity of the backdrop cube.
const StarfieldOpacity = 0.8

// DegradedAsset records a texture that could not be decoded.
type DegradedAsset struct {
	// Body is the name of the body the texture belonged to.
	Body string
	// Path is the image path that failed.
	Path string
	// Err is the decode error.
	Err error
}

// Assets holds the materials for every body of a solar system.
type Assets struct {
	Sun       model.Material
	Starfield model.Material
	Planets   map[string]model.Material
	Degraded  []DegradedAsset
}

// textureJob is one image to decode and the flat material to fall back to.
type textureJob struct {
	body     string
	path     string
	color    [3]float32
	extra    []model.MaterialBuilderOption
	assign   func(model.Material)
}

func (l *loader) Materials(sys *SolarSystem) Assets {
	assets := Assets{Planets: make(map[string]model.Material, len(sys.Planets))}

	sunColor, err := model.ParseColor(l.sunColor)
	if err != nil {
		log.Printf("[Loader] bad sun colour %q, using %s: %v", l.sunColor, DefaultSunColor, err)
		sunColor, _ = model.ParseColor(DefaultSunColor)
	}
	starColor, _ := model.ParseColor(DefaultStarfieldColor)

	jobs := []textureJob{
		{
			body:   SunName,
			path:   l.sunTexture,
			color:  sunColor,
			extra:  []model.MaterialBuilderOption{model.WithUnlit(true)},
			assign: func(m model.Material) { assets.Sun = m },
		},
		{
			body:  StarfieldName,
			path:  l.starTexture,
			color: starColor,
			extra: []model.MaterialBuilderOption{
				model.WithUnlit(true),
				model.WithBackSide(true),
				model.WithOpacity(StarfieldOpacity),
			},
			assign: func(m model.Material) { assets.Starfield = m },
		},
	}
	for _, rec := range sys.Planets {
		color, err := model.ParseColor(common.Coalesce(rec.Color, model.FallbackColor))
		if err != nil {
			color, _ = model.ParseColor(model.FallbackColor)
		}
		jobs = append(jobs, textureJob{
			body:   rec.Name,
			path:   sys.ImagePath(rec),
			color:  color,
			assign: func(m model.Material) { assets.Planets[rec.Name] = m },
		})
	}

	var mu sync.Mutex
	finish := func(job textureJob, m model.Material, failure error) {
		mu.Lock()
		defer mu.Unlock()
		job.assign(m)
		if failure != nil {
			assets.Degraded = append(assets.Degraded, DegradedAsset{Body: job.body, Path: job.path, Err: failure})
		}
	}

	var pending []textureJob
	for _, job := range jobs {
		if job.path == "" || !l.decodeTextures {
			finish(job, flatMaterial(job, false), nil)
			continue
		}
		pending = append(pending, job)
	}
	if len(pending) == 0 {
		return assets
	}

	pool := worker.NewDynamicWorkerPool(min(l.workers, len(pending)), len(pending), time.Second)
	var wg sync.WaitGroup
	for i, job := range pending {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				tex, err := common.TextureSource{Path: job.path}.Decode()
				if err != nil {
					log.Printf("[Loader] texture for %s unavailable, using flat colour: %v", job.body, err)
					finish(job, flatMaterial(job, true), err)
					return nil, err
				}
				opts := append([]model.MaterialBuilderOption{model.WithTexture(&tex)}, job.extra...)
				finish(job, model.NewMaterial(opts...), nil)
				return nil, nil
			},
		})
	}
	wg.Wait()
	pool.Stop()

	return assets
}

func flatMaterial(job textureJob, degraded bool) model.Material {
	opts := append([]model.MaterialBuilderOption{
		model.WithColor(job.color),
		model.WithDegraded(degraded),
	}, job.extra...)
	return model.NewMaterial(opts...)
}
