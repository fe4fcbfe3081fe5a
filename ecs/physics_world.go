package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/common"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/levels"
	"github.com/milk9111/heavypockets/player"
	"github.com/sirupsen/logrus"
)

const (
	collisionTypeGround cp.CollisionType = iota + 1
	collisionTypeWall
	collisionTypePlayer
	collisionTypeGroundSensor
	collisionTypeCoin
	collisionTypeHazard
	collisionTypeGoal
	collisionTypeSlime
)

const (
	categoryGround uint = 1 << iota
	categoryPlayer
	categoryFeet
	categoryPickup
	categorySlime
)

// playerGroup keeps the player box, its ground sensor and its ground probe
// from seeing each other.
const playerGroup uint = 1

const (
	staticFriction  = 1.0
	blockedNormalX  = 0.7
	boundsThickness = 0.5
)

var (
	groundFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryGround, cp.ALL_CATEGORIES)
	playerFilter = cp.NewShapeFilter(playerGroup, categoryPlayer, cp.ALL_CATEGORIES)
	feetFilter   = cp.NewShapeFilter(playerGroup, categoryFeet, categoryGround)
	pickupFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryPickup, categoryPlayer)
	slimeFilter  = cp.NewShapeFilter(cp.NO_GROUP, categorySlime, categoryGround|categoryPlayer)
	probeFilter  = cp.NewShapeFilter(playerGroup, cp.ALL_CATEGORIES, categoryGround)
)

// BoxSpec is a collider box relative to its body's center.
type BoxSpec struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// PlayerShape describes the player's body, collision box, ground sensor and
// ground probe reach below the feet.
type PlayerShape struct {
	Mass          float64
	Box           BoxSpec
	Sensor        BoxSpec
	ProbeDistance float64
}

// PhysicsWorld owns the Chipmunk space, the static level geometry and the
// mapping from shapes back to entities.
type PhysicsWorld struct {
	world *World
	level *levels.Level
	space *cp.Space
	log   logrus.FieldLogger

	surfaces      map[*cp.Shape]player.SurfaceID
	nextSurface   player.SurfaceID
	shapeToEntity map[*cp.Shape]Entity
	entityShapes  map[Entity][]*cp.Shape
	entityBodies  map[Entity]*cp.Body
	feet          map[*cp.Shape]*player.GroundContactDetector
}

// NewPhysicsWorld creates a physics world for a level and attaches it to w.
func NewPhysicsWorld(w *World, level *levels.Level, log logrus.FieldLogger) *PhysicsWorld {
	if log == nil {
		log = logrus.StandardLogger()
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})

	pw := &PhysicsWorld{
		world:         w,
		level:         level,
		space:         space,
		log:           log.WithField("component", "physics"),
		surfaces:      make(map[*cp.Shape]player.SurfaceID),
		shapeToEntity: make(map[*cp.Shape]Entity),
		entityShapes:  make(map[Entity][]*cp.Shape),
		entityBodies:  make(map[Entity]*cp.Body),
		feet:          make(map[*cp.Shape]*player.GroundContactDetector),
	}
	pw.buildStaticShapes()
	pw.setupHandlers()
	if w != nil {
		w.SetPhysicsWorld(pw)
	}
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Level returns the level the static geometry was built from.
func (pw *PhysicsWorld) Level() *levels.Level {
	if pw == nil {
		return nil
	}
	return pw.level
}

// Step advances the simulation. Contact callbacks fire inside Step.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

func (pw *PhysicsWorld) addSurface(shape *cp.Shape) {
	pw.nextSurface++
	pw.surfaces[shape] = pw.nextSurface
	pw.space.AddShape(shape)
}

func (pw *PhysicsWorld) buildStaticShapes() {
	if pw == nil || pw.space == nil || pw.level == nil {
		return
	}
	static := pw.space.StaticBody

	for _, p := range pw.level.Platforms {
		shape := cp.NewBox2(static, cp.BB{L: p.X, B: p.Y, R: p.X + p.W, T: p.Y + p.H}, 0)
		shape.SetFriction(staticFriction)
		shape.SetFilter(groundFilter)
		if p.Tag == "wall" {
			shape.SetCollisionType(collisionTypeWall)
			pw.space.AddShape(shape)
			continue
		}
		shape.SetCollisionType(collisionTypeGround)
		pw.addSurface(shape)
	}

	for _, s := range pw.level.Slopes {
		r := s.Radius
		if r <= 0 {
			r = 0.05
		}
		shape := cp.NewSegment(static, cp.Vector{X: s.AX, Y: s.AY}, cp.Vector{X: s.BX, Y: s.BY}, r)
		shape.SetFriction(staticFriction)
		shape.SetFilter(groundFilter)
		shape.SetCollisionType(collisionTypeGround)
		pw.addSurface(shape)
	}

	w, h := pw.level.Width, pw.level.Height
	if w <= 0 || h <= 0 {
		return
	}
	walls := []struct{ a, b cp.Vector }{
		{a: cp.Vector{X: 0, Y: h}, b: cp.Vector{X: w, Y: h}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: h}},
		{a: cp.Vector{X: w, Y: 0}, b: cp.Vector{X: w, Y: h}},
	}
	for _, seg := range walls {
		shape := cp.NewSegment(static, seg.a, seg.b, boundsThickness)
		shape.SetFriction(0)
		shape.SetFilter(groundFilter)
		shape.SetCollisionType(collisionTypeWall)
		pw.space.AddShape(shape)
	}

	// Falling out of the level counts as touching a hazard.
	pit := cp.NewSegment(static, cp.Vector{X: -w, Y: -2}, cp.Vector{X: 2 * w, Y: -2}, boundsThickness)
	pit.SetSensor(true)
	pit.SetFilter(pickupFilter)
	pit.SetCollisionType(collisionTypeHazard)
	pw.space.AddShape(pit)
}

// AddPlayer creates the player's dynamic body, its collision box and the
// ground sensor under its feet. The detector receives contact events from
// the sensor and uses the returned world as its ray probe.
func (pw *PhysicsWorld) AddPlayer(e Entity, pos cp.Vector, ps PlayerShape, detector *player.GroundContactDetector) *BodyAdapter {
	if pw == nil || pw.space == nil {
		return nil
	}
	mass, box, sensor := ps.Mass, ps.Box, ps.Sensor
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)
	pw.space.AddBody(body)

	shape := cp.NewBox2(body, boxBB(box), 0)
	shape.SetFriction(0)
	shape.SetFilter(playerFilter)
	shape.SetCollisionType(collisionTypePlayer)
	pw.space.AddShape(shape)

	if sensor.Width <= 0 {
		sensor.Width = box.Width * 0.9
	}
	if sensor.Height <= 0 {
		sensor.Height = 0.1
	}
	if sensor.OffsetY == 0 {
		sensor.OffsetY = box.OffsetY - box.Height/2
	}
	feet := cp.NewBox2(body, boxBB(sensor), 0)
	feet.SetSensor(true)
	feet.SetFilter(feetFilter)
	feet.SetCollisionType(collisionTypeGroundSensor)
	pw.space.AddShape(feet)

	pw.track(e, body, shape, feet)
	if detector != nil {
		reach := ps.ProbeDistance
		if reach <= 0 {
			reach = 0.5
		}
		pw.feet[feet] = detector
		detector.SetProbe(&groundProbe{
			world: pw,
			body:  body,
			reach: box.Height/2 - box.OffsetY + reach,
		})
	}
	return NewBodyAdapter(body, shape)
}

// AddSlime creates a patrolling enemy body.
func (pw *PhysicsWorld) AddSlime(e Entity, pos cp.Vector, mass float64, box BoxSpec) *cp.Body {
	if pw == nil || pw.space == nil {
		return nil
	}
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)
	pw.space.AddBody(body)

	shape := cp.NewBox2(body, boxBB(box), 0)
	shape.SetFriction(0)
	shape.SetFilter(slimeFilter)
	shape.SetCollisionType(collisionTypeSlime)
	pw.space.AddShape(shape)

	pw.track(e, body, shape)
	return body
}

// AddCoin creates a circular pickup sensor.
func (pw *PhysicsWorld) AddCoin(e Entity, center cp.Vector, radius float64) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	if radius <= 0 {
		radius = 0.25
	}
	return pw.addStaticSensor(e, cp.NewCircle(pw.space.StaticBody, radius, center), collisionTypeCoin)
}

// AddHazard creates a hazard sensor covering r.
func (pw *PhysicsWorld) AddHazard(e Entity, r levels.Rect) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	return pw.addStaticSensor(e, cp.NewBox2(pw.space.StaticBody, rectBB(r), 0), collisionTypeHazard)
}

// AddGoal creates the level exit sensor covering r.
func (pw *PhysicsWorld) AddGoal(e Entity, r levels.Rect) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	return pw.addStaticSensor(e, cp.NewBox2(pw.space.StaticBody, rectBB(r), 0), collisionTypeGoal)
}

func (pw *PhysicsWorld) addStaticSensor(e Entity, shape *cp.Shape, kind cp.CollisionType) *cp.Shape {
	shape.SetSensor(true)
	shape.SetFilter(pickupFilter)
	shape.SetCollisionType(kind)
	pw.space.AddShape(shape)
	pw.track(e, nil, shape)
	return shape
}

func (pw *PhysicsWorld) track(e Entity, body *cp.Body, shapes ...*cp.Shape) {
	for _, shape := range shapes {
		pw.shapeToEntity[shape] = e
	}
	pw.entityShapes[e] = append(pw.entityShapes[e], shapes...)
	if body != nil {
		pw.entityBodies[e] = body
	}
}

// RemoveEntity removes every shape and body created for e. It must not be
// called from inside Step.
func (pw *PhysicsWorld) RemoveEntity(e Entity) {
	if pw == nil || pw.space == nil {
		return
	}
	for _, shape := range pw.entityShapes[e] {
		if pw.space.ContainsShape(shape) {
			pw.space.RemoveShape(shape)
		}
		delete(pw.shapeToEntity, shape)
		delete(pw.feet, shape)
	}
	if body := pw.entityBodies[e]; body != nil && pw.space.ContainsBody(body) {
		pw.space.RemoveBody(body)
	}
	delete(pw.entityShapes, e)
	delete(pw.entityBodies, e)
}

// Body returns the dynamic body created for e.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	body, ok := pw.entityBodies[e]
	return body, ok
}

// SurfaceCount is the number of static surfaces the ground sensor can stand on.
func (pw *PhysicsWorld) SurfaceCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.surfaces)
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.space == nil {
		return
	}

	feet := pw.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeGround)
	feet.UserData = pw
	feet.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if detector, id, ok := pw.feetContact(arb); ok {
			detector.OnSurfaceEnter(id, contactNormals(arb))
		}
		return true
	}
	feet.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if detector, id, ok := pw.feetContact(arb); ok {
			detector.OnSurfaceStay(id, contactNormals(arb))
		}
		return true
	}
	feet.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if detector, id, ok := pw.feetContact(arb); ok {
			detector.OnSurfaceExit(id)
		}
	}

	coin := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeCoin)
	coin.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if _, other, ok := pw.pair(arb); ok && !Has(pw.world, other, component.CollectedComponent.Kind()) {
			_ = Add(pw.world, other, component.CollectedComponent.Kind(), &component.Collected{})
			pw.log.WithField("coin", other).Debug("coin touched")
		}
		return true
	}

	hazard := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeHazard)
	hazard.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if p, _, ok := pw.pair(arb); ok {
			pw.requestDeath(p, "hazard")
		}
		return true
	}

	slime := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSlime)
	slime.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if p, _, ok := pw.pair(arb); ok {
			pw.requestDeath(p, "slime")
		}
		return false
	}

	goal := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeGoal)
	goal.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		p, _, ok := pw.pair(arb)
		if !ok || Has(pw.world, p, component.DyingComponent.Kind()) ||
			Has(pw.world, p, component.DeathRequestComponent.Kind()) {
			return true
		}
		_ = Add(pw.world, p, component.LevelCompleteRequestComponent.Kind(), &component.LevelCompleteRequest{})
		pw.log.Debug("goal reached")
		return true
	}

	for _, solid := range []cp.CollisionType{collisionTypeGround, collisionTypeWall} {
		blocked := pw.space.NewCollisionHandler(collisionTypeSlime, solid)
		blocked.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			e, _, ok := pw.pair(arb)
			if !ok {
				return true
			}
			s, ok := Get(pw.world, e, component.SlimeComponent.Kind())
			if !ok {
				return true
			}
			// The normal points from the slime into the obstacle.
			n := arb.Normal()
			if math.Abs(n.X) > blockedNormalX && n.X*s.Dir > 0 {
				s.Blocked = true
			}
			return true
		}
	}
}

func (pw *PhysicsWorld) feetContact(arb *cp.Arbiter) (*player.GroundContactDetector, player.SurfaceID, bool) {
	a, b := arb.Shapes()
	detector, ok := pw.feet[a]
	if !ok {
		return nil, 0, false
	}
	id, ok := pw.surfaces[b]
	if !ok {
		return nil, 0, false
	}
	return detector, id, true
}

// pair resolves both arbiter shapes to entities, in handler order.
func (pw *PhysicsWorld) pair(arb *cp.Arbiter) (Entity, Entity, bool) {
	a, b := arb.Shapes()
	ea, okA := pw.shapeToEntity[a]
	eb := pw.shapeToEntity[b]
	if !okA || !IsAlive(pw.world, ea) {
		return 0, 0, false
	}
	return ea, eb, true
}

func (pw *PhysicsWorld) requestDeath(e Entity, cause string) {
	if Has(pw.world, e, component.DyingComponent.Kind()) || Has(pw.world, e, component.DeathRequestComponent.Kind()) {
		return
	}
	_ = Add(pw.world, e, component.DeathRequestComponent.Kind(), &component.DeathRequest{})
	pw.log.WithField("cause", cause).Debug("death requested")
}

// contactNormals returns one surface normal per contact point, pointing from
// the surface towards the sensor. An empty result means the solver reported
// no contact data this step.
func contactNormals(arb *cp.Arbiter) []cp.Vector {
	set := arb.ContactPointSet()
	if set.Count == 0 {
		return nil
	}
	n := arb.Normal().Neg()
	normals := make([]cp.Vector, set.Count)
	for i := range normals {
		normals[i] = n
	}
	return normals
}

func boxBB(b BoxSpec) cp.BB {
	return cp.BB{
		L: b.OffsetX - b.Width/2,
		B: b.OffsetY - b.Height/2,
		R: b.OffsetX + b.Width/2,
		T: b.OffsetY + b.Height/2,
	}
}

func rectBB(r levels.Rect) cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}
}

// groundProbe casts a short ray down from the player's center. It backs the
// detector when a contact arrives without contact points.
type groundProbe struct {
	world *PhysicsWorld
	body  *cp.Body
	reach float64
}

func (p *groundProbe) ProbeGround(id player.SurfaceID) (cp.Vector, bool) {
	if p == nil || p.world == nil || p.world.space == nil || p.body == nil {
		return cp.Vector{}, false
	}
	start := p.body.Position()
	end := start.Add(cp.Vector{X: 0, Y: -p.reach})
	info := p.world.space.SegmentQueryFirst(start, end, 0, probeFilter)
	if info.Shape == nil {
		return cp.Vector{}, false
	}
	hit, ok := p.world.surfaces[info.Shape]
	if !ok || (id != 0 && hit != id) {
		return cp.Vector{}, false
	}
	return info.Normal, true
}

// BodyAdapter drives a Chipmunk body on behalf of a movement controller.
// Gravity is scaled per body through the velocity update func.
type BodyAdapter struct {
	body         *cp.Body
	shape        *cp.Shape
	gravityScale float64
}

func NewBodyAdapter(body *cp.Body, shape *cp.Shape) *BodyAdapter {
	a := &BodyAdapter{body: body, shape: shape, gravityScale: 1}
	if body != nil {
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
			cp.BodyUpdateVelocity(b, gravity.Mult(a.gravityScale), damping, dt)
		})
	}
	return a
}

func (a *BodyAdapter) Velocity() cp.Vector {
	if a == nil || a.body == nil {
		return cp.Vector{}
	}
	return a.body.Velocity()
}

func (a *BodyAdapter) SetVelocity(v cp.Vector) {
	if a == nil || a.body == nil {
		return
	}
	a.body.SetVelocityVector(v)
}

func (a *BodyAdapter) SetGravityScale(scale float64) {
	if a == nil {
		return
	}
	a.gravityScale = scale
}

func (a *BodyAdapter) GravityScale() float64 {
	if a == nil {
		return 0
	}
	return a.gravityScale
}

func (a *BodyAdapter) SetFriction(f float64) {
	if a == nil || a.shape == nil {
		return
	}
	a.shape.SetFriction(f)
}

func (a *BodyAdapter) Friction() float64 {
	if a == nil || a.shape == nil {
		return 0
	}
	return a.shape.Friction()
}

func (a *BodyAdapter) Position() cp.Vector {
	if a == nil || a.body == nil {
		return cp.Vector{}
	}
	return a.body.Position()
}

func (a *BodyAdapter) Body() *cp.Body {
	if a == nil {
		return nil
	}
	return a.body
}

func (a *BodyAdapter) Shape() *cp.Shape {
	if a == nil {
		return nil
	}
	return a.shape
}
