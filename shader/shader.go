// Package shader holds the GLSL sources the effect and the demo host compile.
package shader

// Kernel is an effect fragment shader written against WebGL2 (GLSL ES 3.00). It is
// translated for the running context before compilation.
type Kernel struct {
	Name   string
	Source string
}

// Uniforms is the contract every glass kernel is driven with.
var Uniforms = []string{
	"tex",
	"topLeft",
	"fullSize",
	"fullSizeUntransformed",
	"radius",
	"time",
	"blurStrength",
	"refractionStrength",
	"chromaticAberration",
	"fresnelStrength",
	"specularStrength",
	"glassOpacity",
	"edgeThickness",
}

// LiquidGlass returns the stock kernel.
func LiquidGlass() Kernel {
	return Kernel{Name: "liquidglass.frag", Source: liquidGlassFragment}
}

// ────────────────────────────────── Quad vertex ──────────────────────────────────

// The glass quad spans [0,1]² and is placed by the box projection matrix.
const quadVertexGL = `#version 410 core
uniform mat3 proj;
layout (location = 0) in vec2 pos;
void main() {
    gl_Position = vec4(proj * vec3(pos, 1.0), 1.0);
}
`

const quadVertexGLES = `#version 300 es
uniform mat3 proj;
layout (location = 0) in vec2 pos;
void main() {
    gl_Position = vec4(proj * vec3(pos, 1.0), 1.0);
}
`

// QuadVertex returns the vertex shader paired with every kernel.
func QuadVertex(isGLES bool) string {
	if isGLES {
		return quadVertexGLES
	}
	return quadVertexGL
}

// ─────────────────────────────────── Kernel ──────────────────────────────────────

// UV is derived from gl_FragCoord so the kernel needs no varyings from the vertex stage.
const liquidGlassFragment = `#version 300 es
precision highp float;

uniform sampler2D tex;
uniform vec2 topLeft;
uniform vec2 fullSize;
uniform vec2 fullSizeUntransformed;
uniform float radius;
uniform float time;

uniform float blurStrength;
uniform float refractionStrength;
uniform float chromaticAberration;
uniform float fresnelStrength;
uniform float specularStrength;
uniform float glassOpacity;
uniform float edgeThickness;

layout(location = 0) out vec4 fragColor;

const float PI = 3.14159265359;
const float AA = 0.002;

float boxSDF(vec2 p, vec2 halfSize, float r) {
    vec2 q = abs(p) - halfSize + r;
    return min(max(q.x, q.y), 0.0) + length(max(q, 0.0)) - r;
}

// Signed distance in aspect-corrected UV space, negative inside.
float shapeDistance(vec2 uv, float inset) {
    float aspect = fullSizeUntransformed.x / max(fullSizeUntransformed.y, 1.0);
    vec2 p = (uv - 0.5) * vec2(aspect, 1.0);
    vec2 halfSize = vec2(0.5 * aspect, 0.5) - inset;
    float r = max(radius / max(fullSizeUntransformed.y, 1.0) - inset, 0.0);
    return boxSDF(p, halfSize, r);
}

vec3 sampleBlurred(vec2 uv, float amount) {
    if (amount <= 0.0) {
        return texture(tex, uv).rgb;
    }
    vec2 texel = amount / fullSize;
    vec3 acc = vec3(0.0);
    float wsum = 0.0;
    for (int x = -2; x <= 2; x++) {
        for (int y = -2; y <= 2; y++) {
            float w = exp(-float(x * x + y * y) / 4.0);
            acc += texture(tex, clamp(uv + vec2(float(x), float(y)) * texel, 0.0, 1.0)).rgb * w;
            wsum += w;
        }
    }
    return acc / wsum;
}

void main() {
    vec2 uv = clamp((gl_FragCoord.xy - topLeft) / fullSize, 0.0, 1.0);

    float dist = shapeDistance(uv, 0.0);
    float mask = 1.0 - smoothstep(-AA, AA, dist);
    if (mask <= 0.0) {
        discard;
    }

    float edge = clamp(smoothstep(-edgeThickness * 0.5, edgeThickness * 0.5,
        shapeDistance(uv, edgeThickness)), 0.0, 1.0);

    vec2 fromCenter = uv - 0.5;
    vec2 dir = normalize(fromCenter + 0.0001);
    float wave = sin(length(fromCenter) * 8.0 + time * 0.5) * 0.1 + 1.0;
    float bend = edge * sin(edge * PI * 0.5) * wave;
    vec2 refracted = clamp(uv - dir * bend * refractionStrength, 0.0, 1.0);

    vec2 ca = dir * chromaticAberration * edge;
    vec3 color;
    color.r = sampleBlurred(clamp(refracted + ca, 0.0, 1.0), blurStrength).r;
    color.g = sampleBlurred(refracted, blurStrength).g;
    color.b = sampleBlurred(clamp(refracted - ca, 0.0, 1.0), blurStrength).b;

    float fresnel = pow(edge, 3.0) * fresnelStrength;
    color = mix(color, vec3(1.0), fresnel * 0.35);

    vec2 lightDir = normalize(vec2(-0.6, 0.8));
    float spec = pow(max(dot(dir, lightDir), 0.0), 24.0) * edge * specularStrength;
    color += vec3(spec);

    fragColor = vec4(color, glassOpacity * mask);
}
`

// ──────────────────────────── Demo host full-screen passes ────────────────────────

const screenVertexGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const screenVertexGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform int u_flip;
void main() {
    vec2 uv = u_flip != 0 ? vec2(frag_uv.x, 1.0 - frag_uv.y) : frag_uv;
    fragColor = texture(u_texture, uv);
}
`

const blitFragmentGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform int u_flip;
void main() {
    vec2 uv = u_flip != 0 ? vec2(frag_uv.x, 1.0 - frag_uv.y) : frag_uv;
    fragColor = texture(u_texture, uv);
}
`

// Animated backdrop with hard light and dark bands, so adaptive colours visibly flip.
const backdropBody = `
in vec2 frag_uv;
out vec4 fragColor;
uniform float u_time;
uniform vec2 u_resolution;
void main() {
    vec2 p = frag_uv * u_resolution / min(u_resolution.x, u_resolution.y);
    float bands = 0.5 + 0.5 * sin(p.x * 3.0 + u_time * 0.4);
    vec3 dark = vec3(0.05, 0.07, 0.12);
    vec3 light = vec3(0.92, 0.90, 0.85);
    vec3 base = mix(dark, light, smoothstep(0.35, 0.65, bands));
    float ripple = 0.04 * sin(length(p - 0.5) * 18.0 - u_time * 2.0);
    fragColor = vec4(base + ripple, 1.0);
}
`

const backdropFragmentGL = "#version 410 core\n" + backdropBody

const backdropFragmentGLES = "#version 300 es\nprecision highp float;\n" + backdropBody

// ────────────────────────────────── Public API ─────────────────────────────────

func ScreenVertex(isGLES bool) string {
	if isGLES {
		return screenVertexGLES
	}
	return screenVertexGL
}

func BlitFragment(isGLES bool) string {
	if isGLES {
		return blitFragmentGLES
	}
	return blitFragmentGL
}

func BackdropFragment(isGLES bool) string {
	if isGLES {
		return backdropFragmentGLES
	}
	return backdropFragmentGL
}
