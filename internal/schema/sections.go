/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schema

// Section ids used throughout the application. Serialization order follows
// the order of the singular/multi slices below, never the edit order.
const (
	SectionModInfo       = "mod_info"
	SectionCore          = "core"
	SectionGraphics      = "graphics"
	SectionAttack        = "attack"
	SectionMovement      = "movement"
	SectionAI            = "ai"
	SectionTurret        = "turret"
	SectionProjectile    = "projectile"
	SectionAction        = "action"
	SectionAnimation     = "animation"
	SectionCanBuild      = "canBuild"
	SectionLeg           = "leg"
	SectionAttachment    = "attachment"
	SectionEffect        = "effect"
	SectionPlacementRule = "placementRule"
	SectionResource      = "resource"
	SectionDecal         = "decal"
)

// KeyframesFieldID names the one field whose value is spliced raw into the
// output instead of being rendered as a key: value line.
const KeyframesFieldID = "Keyframes"

var modInfoSection = Section{
	ID:          SectionModInfo,
	Title:       "Mod Manifest",
	Description: "Configuration for mod-info.txt used by the game browser.",
	Fields: []Field{
		{ID: "title", Label: "Mod Title", Type: TypeString, Description: "Display name of the mod.", Example: "My Awesome Mod"},
		{ID: "description", Label: "Mod Description", Type: TypeString, Description: "Brief overview of what the mod does.", Example: "Adds new experimental units."},
		{ID: "id", Label: "Internal ID", Type: TypeString, Description: "Unique ID for dependency tracking.", Example: "com.user.coolmod"},
		{ID: "tags", Label: "Tags", Type: TypeString, Description: "Comma separated tags (e.g. units, sample).", Example: "units, tank"},
		{ID: "minVersion", Label: "Min Version", Type: TypeString, Description: "Minimum game version required.", Example: "1.15"},
		{ID: "requiredMods", Label: "Required Mods", Type: TypeString, Description: "List of mod IDs this depends on.", Example: "base-expansion"},
		{ID: "requiredModsMessage", Label: "Missing Dependency Message", Type: TypeString, Description: "Message shown if dependencies are missing.", Example: "Please install the Base Expansion mod."},
	},
}

var singularSections = []Section{
	{
		ID:          SectionCore,
		Title:       "Core Unit Functions",
		Description: "Basic unit characteristics such as HP, price, and mass.",
		Fields: []Field{
			{ID: "name", Label: "Unit Name", Type: TypeString, Description: "Internal unit name for identification.", Example: "customTank1"},
			{ID: "maxHp", Label: "Max HP", Type: TypeNumber, Description: "Maximum health points.", Example: "200"},
			{ID: "price", Label: "Price", Type: TypePrice, Description: "Cost to build (credits, resources).", Example: "500, gold=10"},
			{ID: "mass", Label: "Mass", Type: TypeNumber, Description: "Weight affects collisions.", Example: "3000"},
			{ID: "radius", Label: "Selection Radius", Type: TypeNumber, Description: "Circular area for selection.", Example: "20"},
			{ID: "techLevel", Label: "Tech Level", Type: TypeEnum, Options: []string{"1", "2", "3"}, Description: "Tech tier of the unit.", Example: "1"},
			{ID: "buildSpeed", Label: "Build Speed", Type: TypeString, Description: "Time to build (e.g. 3s or 0.01).", Example: "3s"},
			{ID: "isBio", Label: "Is Biological?", Type: TypeBoolean, Description: "Affects sounds and splats.", Example: "false"},
			{ID: "isBuilder", Label: "Is Builder?", Type: TypeBoolean, Description: "Required for placing buildings.", Example: "false"},
			{ID: "soundOnAttackOrder", Label: "Attack Sound", Type: TypeSound, Description: "Played when unit is ordered to attack.", Example: "tankAttack.wav"},
			{ID: "soundOnMoveOrder", Label: "Move Sound", Type: TypeSound, Description: "Played when unit is ordered to move.", Example: "tankMove.wav"},
			{ID: "soundOnNewSelection", Label: "Select Sound", Type: TypeSound, Description: "Played when unit is selected.", Example: "tankSelect.wav"},
			{ID: "soundOnDeath", Label: "Death Sound", Type: TypeSound, Description: "Played when unit is destroyed.", Example: "explosion.wav"},
		},
	},
	{
		ID:          SectionGraphics,
		Title:       "Graphics & Visuals",
		Description: "Configuration for body sprites, shadows, and layers.",
		Fields: []Field{
			{ID: "image", Label: "Body Image", Type: TypeFile, Description: "Path to unit body sprite.", Example: "body.png"},
			{ID: "total_frames", Label: "Total Frames", Type: TypeNumber, Description: "Number of frames for animation.", Example: "1"},
			{ID: "image_wreak", Label: "Wreck Image", Type: TypeFile, Description: "Image used when unit dies.", Example: "wreck.png"},
			{ID: "imageScale", Label: "Image Scale", Type: TypeFloat, Description: "Multiplier for image size.", Example: "1.0"},
			{ID: "drawLayer", Label: "Draw Layer", Type: TypeEnum, Options: []string{"ground", "ground2", "air", "top", "underwater"}, Description: "Rendering priority.", Example: "ground"},
			{ID: "teamColoringMode", Label: "Team Coloring", Type: TypeEnum, Options: []string{"pureGreen", "hueAdd", "hueShift", "disabled"}, Description: "Pixel treatment for team colors.", Example: "pureGreen"},
		},
	},
	{
		ID:          SectionAttack,
		Title:       "Attack Permissions",
		Description: "Global characteristics for how the unit targets enemies.",
		Fields: []Field{
			{ID: "canAttack", Label: "Can Attack?", Type: TypeBoolean, Description: "Allow or disallow all attacks.", Example: "true"},
			{ID: "canAttackFlyingUnits", Label: "Attack Air?", Type: TypeBoolean, Description: "Target flying units.", Example: "true"},
			{ID: "canAttackLandUnits", Label: "Attack Land?", Type: TypeBoolean, Description: "Target ground units.", Example: "true"},
			{ID: "canAttackUnderwaterUnits", Label: "Attack Water?", Type: TypeBoolean, Description: "Target underwater units.", Example: "false"},
			{ID: "maxAttackRange", Label: "Max Range", Type: TypeNumber, Description: "Maximum targeting distance.", Example: "250"},
			{ID: "shootDelay", Label: "Shoot Delay", Type: TypeString, Description: "Interval between shots.", Example: "50"},
		},
	},
	{
		ID:          SectionMovement,
		Title:       "Movement Characteristics",
		Description: "Speed, acceleration, and terrain types.",
		Fields: []Field{
			{ID: "movementType", Label: "Movement Type", Type: TypeEnum, Options: []string{"NONE", "LAND", "AIR", "WATER", "HOVER", "BUILDING", "OVER_CLIFF"}, Description: "Terrain compatibility.", Example: "LAND"},
			{ID: "moveSpeed", Label: "Move Speed", Type: TypeFloat, Description: "Maximum movement velocity.", Example: "1.2"},
			{ID: "moveAccelerationSpeed", Label: "Acceleration", Type: TypeFloat, Description: "Speed increase per frame.", Example: "0.07"},
			{ID: "maxTurnSpeed", Label: "Turn Speed", Type: TypeFloat, Description: "Top rotation speed.", Example: "4.0"},
			{ID: "targetHeight", Label: "Target Height", Type: TypeNumber, Description: "Operating altitude.", Example: "0"},
		},
	},
	{
		ID:          SectionAI,
		Title:       "AI Behavior",
		Description: "How computer-controlled teams use this unit.",
		Fields: []Field{
			{ID: "useAsBuilder", Label: "Use as Builder?", Type: TypeBoolean, Description: "AI uses this to build structures.", Example: "false"},
			{ID: "useAsTransport", Label: "Use as Transport?", Type: TypeBoolean, Description: "AI uses this to move units.", Example: "true"},
			{ID: "buildPriority", Label: "Build Priority", Type: TypeFloat, Description: "Likelihood of AI building this (0-1).", Example: "0.8"},
			{ID: "maxGlobal", Label: "Max Global Limit", Type: TypeNumber, Description: "Maximum amount for AI per map.", Example: "50"},
		},
	},
}

var multiSections = []Section{
	{
		ID:          SectionTurret,
		Title:       "Turret",
		Description: "Turrets fire projectiles with different traits.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Turret ID", Type: TypeString, Description: "Unique name for this turret.", Example: "gun1"},
			{ID: "x", Label: "X Position", Type: TypeNumber, Description: "Horizontal offset.", Example: "0"},
			{ID: "y", Label: "Y Position", Type: TypeNumber, Description: "Vertical offset.", Example: "0"},
			{ID: "projectile", Label: "Projectile ID", Type: TypeString, Description: "The projectile fired by this turret.", Example: "1"},
			{ID: "turnSpeed", Label: "Turn Speed", Type: TypeFloat, Description: "Rotation speed.", Example: "2.0"},
			{ID: "shoot_sound", Label: "Shoot Sound", Type: TypeSound, Description: "Sound played when firing.", Example: "cannon_fire.wav"},
			{ID: "shoot_sound_vol", Label: "Shoot Volume", Type: TypeFloat, Description: "Volume level (0-1).", Example: "0.5"},
			{ID: "canShoot", Label: "Can Shoot?", Type: TypeBoolean, Description: "If false, used for visuals/build.", Example: "true"},
			{ID: "invisible", Label: "Is Invisible?", Type: TypeBoolean, Description: "Hide the turret sprite.", Example: "false"},
		},
	},
	{
		ID:          SectionProjectile,
		Title:       "Projectile",
		Description: "Defines the damage and flight behavior.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Projectile ID", Type: TypeString, Description: "Unique identifier.", Example: "1"},
			{ID: "directDamage", Label: "Direct Damage", Type: TypeNumber, Description: "Damage on hit.", Example: "30"},
			{ID: "life", Label: "Life (Ticks)", Type: TypeNumber, Description: "Lifespan of projectile.", Example: "200"},
			{ID: "speed", Label: "Speed", Type: TypeFloat, Description: "Flight velocity.", Example: "5.0"},
			{ID: "image", Label: "Image", Type: TypeFile, Description: "Projectile sprite.", Example: "bullet.png"},
			{ID: "areaDamage", Label: "Area Damage", Type: TypeNumber, Description: "Splash damage.", Example: "0"},
			{ID: "areaRadius", Label: "Area Radius", Type: TypeNumber, Description: "Splash radius.", Example: "0"},
		},
	},
	{
		ID:          SectionAction,
		Title:       "Action",
		Description: "Dynamic abilities triggered by players.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Action ID", Type: TypeString, Description: "Unique identifier.", Example: "repair"},
			{ID: "text", Label: "Button Text", Type: TypeString, Description: "Label on the UI button.", Example: "Repair Self"},
			{ID: "description", Label: "Tool-tip", Type: TypeString, Description: "Hover description.", Example: "Fix internal systems."},
			{ID: "price", Label: "Price", Type: TypePrice, Description: "Cost to trigger.", Example: "credits=500"},
			{ID: "playSoundAtUnit", Label: "Unit Sound", Type: TypeSound, Description: "Sound played at the unit when action is used.", Example: "repair.wav"},
			{ID: "playSoundGlobally", Label: "Global Sound", Type: TypeSound, Description: "Sound played to everyone.", Example: "alert.wav"},
			{ID: "autoTrigger", Label: "Auto Trigger Condition", Type: TypeLogic, Description: "Logic Boolean for auto activation.", Example: "if self.hp() < 100"},
			{ID: "convertTo", Label: "Convert To", Type: TypeString, Description: "Transforms unit into another.", Example: "upgradedTank"},
		},
	},
	{
		ID:          SectionAnimation,
		Title:       "Animation",
		Description: "Define frame-by-frame movement for body, turrets, and legs.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Animation ID", Type: TypeString, Description: "Name of the animation.", Example: "idle"},
			{ID: "onActions", Label: "Trigger Actions", Type: TypeString, Description: "When this animation plays (e.g. idle, move, attack).", Example: "move, idle"},
			{ID: "blendIn", Label: "Blend In (s)", Type: TypeFloat, Description: "Time to transition into animation.", Example: "0.1"},
			{ID: "blendOut", Label: "Blend Out (s)", Type: TypeFloat, Description: "Time to transition out.", Example: "0.1"},
			{ID: "pingPong", Label: "Ping-Pong?", Type: TypeBoolean, Description: "Reverses animation at the end.", Example: "true"},
			{ID: KeyframesFieldID, Label: "Keyframes (Raw)", Type: TypeLogic, Description: "Define time-based frames (e.g. body_0.1s: {frame: 0}).", Example: "body_0s: {frame:0}\nbody_0.5s: {frame:4}"},
		},
	},
	{
		ID:          SectionCanBuild,
		Title:       "Build Menu",
		Description: "Build queues for creating new units.",
		Multi:       true,
		Fields: []Field{
			{ID: "name", Label: "Unit ID", Type: TypeString, Description: "Unit identifier to build.", Example: "heavyTank"},
			{ID: "pos", Label: "UI Position", Type: TypeFloat, Description: "Order in build menu.", Example: "1.0"},
			{ID: "tech", Label: "Tech Tier", Type: TypeNumber, Description: "Required tech level.", Example: "1"},
			{ID: "forceNano", Label: "Force Nano?", Type: TypeBoolean, Description: "Build as if structure.", Example: "false"},
			{ID: "isVisible", Label: "Is Visible?", Type: TypeLogic, Description: "Condition to show button.", Example: "if self.hp() > 50"},
			{ID: "isLocked", Label: "Is Locked?", Type: TypeLogic, Description: "Condition to disable button.", Example: "if not self.energy() > 10"},
		},
	},
	{
		ID:          SectionLeg,
		Title:       "Leg / Arm",
		Description: "Moveable cosmetics for mechs, infantry etc.",
		Multi:       true,
		Fields: []Field{
			{ID: "x", Label: "X Foot Pos", Type: TypeFloat, Description: "Foot position horizontal.", Example: "10"},
			{ID: "y", Label: "Y Foot Pos", Type: TypeFloat, Description: "Foot position vertical.", Example: "10"},
			{ID: "attach_x", Label: "Attach X", Type: TypeFloat, Description: "Join point horizontal.", Example: "5"},
			{ID: "attach_y", Label: "Attach Y", Type: TypeFloat, Description: "Join point vertical.", Example: "5"},
			{ID: "rotateSpeed", Label: "Rotate Speed", Type: TypeFloat, Description: "Leg rotation velocity.", Example: "2.0"},
			{ID: "heightSpeed", Label: "Height Speed", Type: TypeFloat, Description: "Vertical movement velocity.", Example: "1.0"},
			{ID: "moveSpeed", Label: "Move Speed", Type: TypeFloat, Description: "Walking movement speed.", Example: "2.5"},
			{ID: "image_leg", Label: "Leg Image", Type: TypeFile, Description: "Leg sprite asset.", Example: "leg.png"},
			{ID: "image_foot", Label: "Foot Image", Type: TypeFile, Description: "Foot sprite asset.", Example: "foot.png"},
		},
	},
	{
		ID:          SectionAttachment,
		Title:       "Attachment",
		Description: "Units stacked onto original to make compound units.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Slot ID", Type: TypeString, Description: "Name of attachment slot.", Example: "cannon_mount"},
			{ID: "x", Label: "X Position", Type: TypeFloat, Description: "Offset horizontal.", Example: "0"},
			{ID: "y", Label: "Y Position", Type: TypeFloat, Description: "Offset vertical.", Example: "10"},
			{ID: "height", Label: "Height", Type: TypeFloat, Description: "Elevation offset.", Example: "5"},
			{ID: "idleDir", Label: "Idle Dir", Type: TypeNumber, Description: "Facing direction.", Example: "0"},
			{ID: "isVisible", Label: "Is Visible?", Type: TypeBoolean, Description: "Show the attachment.", Example: "true"},
			{ID: "canAttack", Label: "Can Attack?", Type: TypeBoolean, Description: "Attachment can fire.", Example: "true"},
			{ID: "onCreateSpawnUnitOf", Label: "Unit Type", Type: TypeString, Description: "Unit to spawn in slot.", Example: "smallTurret"},
			{ID: "prioritizeParentsMainTarget", Label: "Share Target?", Type: TypeBoolean, Description: "Target parent's enemy.", Example: "true"},
		},
	},
	{
		ID:          SectionEffect,
		Title:       "Effect",
		Description: "Visual effects spawned by the unit.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Effect ID", Type: TypeString, Description: "Unique name.", Example: "smoke"},
			{ID: "life", Label: "Lifespan", Type: TypeFloat, Description: "Time till removal.", Example: "100"},
			{ID: "image", Label: "Effect Image", Type: TypeFile, Description: "Sprite asset.", Example: "puff.png"},
			{ID: "scaleTo", Label: "Scale To", Type: TypeFloat, Description: "End scale.", Example: "2.0"},
			{ID: "scaleFrom", Label: "Scale From", Type: TypeFloat, Description: "Start scale.", Example: "1.0"},
			{ID: "color", Label: "Tint Color", Type: TypeString, Description: "Hex color code.", Example: "#FFFFFF"},
			{ID: "fadeInTime", Label: "Fade In (s)", Type: TypeFloat, Description: "Alpha transition.", Example: "0.2"},
			{ID: "xSpeedRelative", Label: "Speed X", Type: TypeFloat, Description: "Horizontal drift.", Example: "0.5"},
			{ID: "ySpeedRelative", Label: "Speed Y", Type: TypeFloat, Description: "Vertical drift.", Example: "0.5"},
		},
	},
	{
		ID:          SectionPlacementRule,
		Title:       "Placement Rule",
		Description: "Allows creation of rules for buildings.",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Rule ID", Type: TypeString, Description: "Unique name.", Example: "nearFactory"},
			{ID: "searchTags", Label: "Search Tags", Type: TypeString, Description: "Find units with tags.", Example: "factory"},
			{ID: "searchTeam", Label: "Search Team", Type: TypeEnum, Options: []string{"own", "neutral", "ally", "enemy", "any"}, Description: "Who to look for.", Example: "own"},
			{ID: "searchDistance", Label: "Distance", Type: TypeNumber, Description: "Radius to check.", Example: "500"},
			{ID: "minCount", Label: "Min Units", Type: TypeNumber, Description: "Required minimum.", Example: "1"},
			{ID: "maxCount", Label: "Max Units", Type: TypeNumber, Description: "Required maximum.", Example: "10"},
			{ID: "cannotPlaceMessage", Label: "Error Message", Type: TypeString, Description: "Shown if failed.", Example: "Requires a factory nearby."},
		},
	},
	{
		ID:          SectionResource,
		Title:       "Local Resource",
		Description: "Local resource used by units (like ammo).",
		Multi:       true,
		Fields: []Field{
			{ID: "id", Label: "Resource ID", Type: TypeString, Description: "Internal name.", Example: "ammo"},
			{ID: "displayName", Label: "Display Name", Type: TypeString, Description: "Visible name.", Example: "Missiles"},
			{ID: "displayNameShort", Label: "Short Name", Type: TypeString, Description: "Compact label.", Example: "Msl"},
			{ID: "hidden", Label: "Is Hidden?", Type: TypeBoolean, Description: "Hide from player UI.", Example: "false"},
		},
	},
	{
		ID:          SectionDecal,
		Title:       "Decal",
		Description: "Versatile graphics stacked onto the unit.",
		Multi:       true,
		Fields: []Field{
			{ID: "image", Label: "Decal Image", Type: TypeFile, Description: "Sprite asset.", Example: "logo.png"},
			{ID: "layer", Label: "Layer", Type: TypeEnum, Options: []string{"shadow", "beforeBody", "afterBody", "onTop", "beforeUI"}, Description: "Stacking priority.", Example: "onTop"},
			{ID: "order", Label: "Sort Order", Type: TypeFloat, Description: "Sub-layer priority.", Example: "1.0"},
			{ID: "xOffsetRelative", Label: "X Offset", Type: TypeFloat, Description: "Horizontal shift.", Example: "0"},
			{ID: "yOffsetRelative", Label: "Y Offset", Type: TypeFloat, Description: "Vertical shift.", Example: "0"},
			{ID: "isVisible", Label: "Is Visible?", Type: TypeLogic, Description: "Condition to draw.", Example: "if self.hp() > 0"},
		},
	},
}
