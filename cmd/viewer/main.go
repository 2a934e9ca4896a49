// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
	"github.com/relabs-tech/rolling_die/internal/random"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

const (
	dieSize   = 2.0
	pipRadius = 0.14
	// Pips sit just outside the face so they are not hidden by it.
	pipLift = 1.01
)

type pipMark struct {
	face die.Face
	body rl.Vector3
}

// pipMarks places every pip in body coordinates: the face's rest pose
// brings it to +Z, so its inverse carries the 2D layout back onto the cube.
func pipMarks() []pipMark {
	var marks []pipMark
	half := dieSize / 2
	for _, f := range die.Faces() {
		back := quat.Conj(f.Pose().Quaternion())
		for _, p := range f.Pips() {
			v := orientation.RotateVec(back, orientation.Vec3{X: p.X, Y: p.Y, Z: pipLift})
			marks = append(marks, pipMark{
				face: f,
				body: rl.NewVector3(float32(v.X*half), float32(v.Y*half), float32(v.Z*half)),
			})
		}
	}
	return marks
}

func toRaylib(q quat.Number) rl.Quaternion {
	return rl.NewQuaternion(float32(q.Imag), float32(q.Jmag), float32(q.Kmag), float32(q.Real))
}

func main() {
	configPath := flag.String("config", "./dice_config.txt", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	seed, err := random.Resolve(cfg.Seed)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	log.Printf("starting rolling-die viewer (seed %d)", seed)

	// Same angular speed as the roller: one step per tick.
	speed := cfg.StepRadians * float64(time.Second) / float64(time.Duration(cfg.TickInterval)*time.Millisecond)

	var (
		last  roll.Result
		rolls int
	)
	anim := roll.NewAnimator(roll.NewSeededController(seed), func(res roll.Result) {
		last = res
		rolls++
		log.Printf("viewer: roll %d resolved to face %v", rolls, res.Face)
	})

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(960, 720, "Rolling Die")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cube := rl.LoadModelFromMesh(rl.GenMeshCube(dieSize, dieSize, dieSize))
	defer rl.UnloadModel(cube)

	camera := rl.Camera3D{
		Position:   rl.NewVector3(0, 0, 7),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	marks := pipMarks()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			anim.Roll()
		}
		anim.Step(roll.StepFor(speed, time.Duration(float64(rl.GetFrameTime())*float64(time.Second))))

		rot := rl.QuaternionToMatrix(toRaylib(anim.Pose().Quaternion()))
		cube.Transform = rot

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

		rl.BeginMode3D(camera)
		rl.DrawModel(cube, rl.Vector3Zero(), 1.0, rl.RayWhite)
		rl.DrawModelWires(cube, rl.Vector3Zero(), 1.0, rl.DarkGray)
		for _, m := range marks {
			color := rl.Black
			if m.face == 1 {
				color = rl.Red
			}
			rl.DrawSphere(rl.Vector3Transform(m.body, rot), pipRadius, color)
		}
		rl.EndMode3D()

		if gui.Button(rl.NewRectangle(20, 20, 120, 36), "Roll") {
			anim.Roll()
		}
		if gui.Button(rl.NewRectangle(150, 20, 120, 36), "Cancel") {
			anim.Cancel()
		}

		status := fmt.Sprintf("%v", anim.Session().State)
		if anim.Rolling() {
			status = fmt.Sprintf("rolling %3.0f%%", anim.Session().Progress()*100)
		}
		rl.DrawText(status, 20, 70, 20, rl.LightGray)
		if rolls > 0 {
			rl.DrawText(fmt.Sprintf("face %v  (%d rolls)", last.Face, rolls), 20, 95, 20, rl.LightGray)
		}
		rl.DrawText("Space or Roll to throw", 20, int32(rl.GetScreenHeight())-30, 20, rl.DarkGray)
		rl.EndDrawing()
	}
}
